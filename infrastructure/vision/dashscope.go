// Package vision provides backends that turn a food photo into a
// nutrition record: a direct DashScope model client and an HTTP client
// for the analysis proxy.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"nutrilens/domain/nutrition"
	"nutrilens/pkg/errors"
)

// prompt instructs the model to answer with the exact record schema.
// Kept in Chinese to match the model the product ships with.
const prompt = `请识别图中的食物并提供估算的营养信息。请严格按照以下 JSON 格式返回，不要添加任何其他文字：
{
  "foodName": "食物的中文名称",
  "description": "食物的简短中文描述",
  "calories": 数字（总热量，单位千卡）,
  "macros": {
    "protein": 数字（蛋白质，单位克）,
    "carbs": 数字（碳水化合物，单位克）,
    "fat": 数字（脂肪，单位克）
  },
  "highlights": {
    "fiber": "关于纤维的描述，如'高纤维'或'低纤维'",
    "energy": "关于能量的描述，如'持久供能'或'快速补充'"
  }
}`

// DashScope calls the multimodal generation endpoint directly. Used by
// the analysis proxy; devices go through the proxy instead so the API
// key never ships in a client build.
type DashScope struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	logger   *zap.Logger
}

// NewDashScope builds a DashScope backend.
func NewDashScope(endpoint, apiKey, model string, logger *zap.Logger) *DashScope {
	return &DashScope{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

type dashScopeRequest struct {
	Model string         `json:"model"`
	Input dashScopeInput `json:"input"`
}

type dashScopeInput struct {
	Messages []dashScopeMessage `json:"messages"`
}

type dashScopeMessage struct {
	Role    string             `json:"role"`
	Content []dashScopeContent `json:"content"`
}

type dashScopeContent struct {
	Image string `json:"image,omitempty"`
	Text  string `json:"text,omitempty"`
}

type dashScopeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Output  struct {
		Choices []struct {
			Message struct {
				Content []dashScopeContent `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
}

// Analyze sends the image with the fixed instruction and parses the
// model's answer into a nutrition record.
func (d *DashScope) Analyze(ctx context.Context, image string) (*nutrition.Record, error) {
	if d.apiKey == "" {
		return nil, errors.NewAnalysisError("vision API key is not configured")
	}

	body, err := json.Marshal(dashScopeRequest{
		Model: d.model,
		Input: dashScopeInput{
			Messages: []dashScopeMessage{
				{
					Role: "user",
					Content: []dashScopeContent{
						{Image: "data:image/jpeg;base64," + image},
						{Text: prompt},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, errors.NewAnalysisError("cannot encode vision request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewAnalysisError("cannot build vision request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.NewAnalysisError("vision endpoint unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAnalysisError("cannot read vision response").WithCause(err)
	}

	var result dashScopeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.NewAnalysisError(fmt.Sprintf("vision response is not JSON (status %d)", resp.StatusCode))
	}
	if result.Code != "" {
		d.logger.Warn("vision model rejected the request",
			zap.String("code", result.Code),
			zap.String("message", result.Message),
		)
		return nil, errors.NewAnalysisError(fmt.Sprintf("vision model error %s: %s", result.Code, result.Message))
	}
	if len(result.Output.Choices) == 0 {
		return nil, errors.NewAnalysisError("vision model returned no choices")
	}

	text := ""
	for _, item := range result.Output.Choices[0].Message.Content {
		if item.Text != "" {
			text = item.Text
			break
		}
	}
	if text == "" {
		return nil, errors.NewAnalysisError("vision model returned no text content")
	}

	return nutrition.ParseRecord(text)
}
