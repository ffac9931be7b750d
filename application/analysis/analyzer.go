// Package analysis converts a captured photo into a nutrition record.
// The pipeline is deliberately forgiving: any failure is masked with the
// fixed placeholder record so the user flow never blocks on the model.
package analysis

import (
	"context"

	"go.uber.org/zap"

	"nutrilens/application/capture"
	"nutrilens/domain/nutrition"
)

// Backend produces a nutrition record from a base64 image. Two
// implementations exist: the direct vision-model client used by the
// proxy, and the HTTP client that calls the proxy from a device.
type Backend interface {
	Analyze(ctx context.Context, image string) (*nutrition.Record, error)
}

// Analyzer is the user-facing analysis pipeline. One attempt per call,
// no retries; the remote model is non-deterministic and that is
// accepted.
type Analyzer struct {
	backend Backend
	logger  *zap.Logger
}

// NewAnalyzer builds an analyzer over the given backend.
func NewAnalyzer(backend Backend, logger *zap.Logger) *Analyzer {
	return &Analyzer{backend: backend, logger: logger}
}

// Analyze returns a fully populated record for any input. Network,
// parsing and model failures are logged and replaced with the
// placeholder record; they are never propagated to the caller.
func (a *Analyzer) Analyze(ctx context.Context, image capture.Payload) nutrition.Record {
	if err := image.Validate(); err != nil {
		a.logger.Error("analysis skipped, empty image payload", zap.Error(err))
		return nutrition.Placeholder()
	}

	rec, err := a.backend.Analyze(ctx, string(image))
	if err != nil {
		a.logger.Error("analysis failed, substituting placeholder record", zap.Error(err))
		return nutrition.Placeholder()
	}
	if err := rec.Validate(); err != nil {
		a.logger.Error("analysis produced an incomplete record, substituting placeholder",
			zap.Error(err),
			zap.String("food_name", rec.FoodName),
		)
		return nutrition.Placeholder()
	}
	return *rec
}
