package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nutrilens/domain/nutrition"
	"nutrilens/pkg/errors"
)

// Remote calls the analysis proxy from a device. The proxy holds the
// vision API key and answers with the record schema directly.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote builds a proxy client for the given base URL.
func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type analyzeRequest struct {
	Image string `json:"image"`
}

type proxyError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Analyze posts the image payload and decodes the returned record.
func (r *Remote) Analyze(ctx context.Context, image string) (*nutrition.Record, error) {
	body, err := json.Marshal(analyzeRequest{Image: image})
	if err != nil {
		return nil, errors.NewAnalysisError("cannot encode analyze request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/analyze-food", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewAnalysisError("cannot build analyze request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.NewAnalysisError("analysis endpoint unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var perr proxyError
		if json.NewDecoder(resp.Body).Decode(&perr) == nil && perr.Error != "" {
			return nil, errors.NewAnalysisError(fmt.Sprintf("analysis failed: %s", perr.Error)).WithDetails(map[string]interface{}{
				"message": perr.Message,
				"status":  resp.StatusCode,
			})
		}
		return nil, errors.NewAnalysisError(fmt.Sprintf("analysis request failed with status %d", resp.StatusCode))
	}

	var rec nutrition.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, errors.NewAnalysisError("analysis response is not a nutrition record").WithCause(err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}
