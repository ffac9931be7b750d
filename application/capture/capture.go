// Package capture obtains a food photo from whichever source the
// platform offers and yields it as a base64 payload.
package capture

import (
	"context"
	"encoding/base64"
	"os"

	"go.uber.org/zap"

	"nutrilens/pkg/errors"
)

// Payload is an opaque base64-encoded image. Produced once per capture,
// consumed once by the analysis pipeline.
type Payload string

// Validate rejects empty payloads; no other format checks apply.
func (p Payload) Validate() error {
	if p == "" {
		return errors.NewValidationError("image payload is empty")
	}
	return nil
}

// Bytes decodes the payload back to raw image bytes.
func (p Payload) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(string(p))
}

// Encode wraps raw image bytes as a payload.
func Encode(data []byte) Payload {
	return Payload(base64.StdEncoding.EncodeToString(data))
}

// ErrNoSource is returned when no capture source is available. Callers
// should offer the manual-upload fallback instead of blocking.
var ErrNoSource = errors.NewCaptureUnavailableError("no capture source available")

// Frame is one acquired image. Close releases whatever resource backed
// the frame and must be called on every exit path.
type Frame struct {
	Data    []byte
	release func() error
}

// Close releases the frame's backing resource. Safe to call twice.
func (f *Frame) Close() error {
	if f == nil || f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	return release()
}

// Source produces frames from one capture mechanism.
type Source interface {
	Name() string
	// Available probes whether the source can be used right now.
	Available() bool
	// Acquire obtains one frame. Cancelling ctx abandons the capture;
	// implementations release their resources before returning.
	Acquire(ctx context.Context) (*Frame, error)
}

// Adapter picks the first usable source and turns its frame into a
// payload.
type Adapter struct {
	sources []Source
	logger  *zap.Logger
}

// NewAdapter builds an adapter over sources in preference order.
func NewAdapter(logger *zap.Logger, sources ...Source) *Adapter {
	return &Adapter{sources: sources, logger: logger}
}

// Capture obtains a photo from the first available source. A source that
// probes available but fails to acquire is skipped, not fatal. When
// nothing is usable the caller gets ErrNoSource and should fall back to
// CaptureFile.
func (a *Adapter) Capture(ctx context.Context) (Payload, error) {
	for _, src := range a.sources {
		if !src.Available() {
			continue
		}
		frame, err := src.Acquire(ctx)
		if err != nil {
			a.logger.Warn("capture source failed, trying next",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			continue
		}
		payload := Encode(frame.Data)
		if cerr := frame.Close(); cerr != nil {
			a.logger.Warn("failed to release capture frame",
				zap.String("source", src.Name()),
				zap.Error(cerr),
			)
		}
		if err := payload.Validate(); err != nil {
			a.logger.Warn("capture source produced an empty frame",
				zap.String("source", src.Name()),
			)
			continue
		}
		return payload, nil
	}
	return "", ErrNoSource
}

// CaptureFile is the manual-upload fallback: read an image the user
// picked explicitly.
func (a *Adapter) CaptureFile(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewCaptureUnavailableError("cannot read image file").WithCause(err)
	}
	payload := Encode(data)
	if err := payload.Validate(); err != nil {
		return "", errors.NewCaptureUnavailableError("image file is empty")
	}
	return payload, nil
}
