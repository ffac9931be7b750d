package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrilens/domain/nutrition"
)

type stubBackend struct {
	rec  *nutrition.Record
	err  error
	seen string
}

func (s *stubBackend) Analyze(ctx context.Context, image string) (*nutrition.Record, error) {
	s.seen = image
	return s.rec, s.err
}

func TestAnalyzeHandler_Success(t *testing.T) {
	backend := &stubBackend{rec: &nutrition.Record{
		FoodName: "牛油果吐司",
		Calories: 320,
		Macros:   nutrition.Macros{Protein: 8, Carbs: 30, Fat: 20},
	}}
	handler := NewAnalyzeHandler(backend, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-food", strings.NewReader(`{"image":"aW1hZ2U="}`))
	rr := httptest.NewRecorder()
	handler.Analyze(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "aW1hZ2U=", backend.seen)

	// The success body is the record itself, not the envelope.
	var rec nutrition.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "牛油果吐司", rec.FoodName)
	assert.Equal(t, 320.0, rec.Calories)
}

func TestAnalyzeHandler_MissingImage(t *testing.T) {
	handler := NewAnalyzeHandler(&stubBackend{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-food", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.Analyze(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing image data")
}

func TestAnalyzeHandler_InvalidBody(t *testing.T) {
	handler := NewAnalyzeHandler(&stubBackend{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-food", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	handler.Analyze(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyzeHandler_BackendFailure(t *testing.T) {
	backend := &stubBackend{err: errors.New("model unreachable")}
	handler := NewAnalyzeHandler(backend, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-food", strings.NewReader(`{"image":"aW1hZ2U="}`))
	rr := httptest.NewRecorder()
	handler.Analyze(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "analysis failed", body.Error)
	assert.Contains(t, body.Message, "model unreachable")
}
