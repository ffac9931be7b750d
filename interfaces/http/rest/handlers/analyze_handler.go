package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"nutrilens/application/analysis"
	"nutrilens/pkg/common"
)

// AnalyzeHandler is the thin proxy in front of the vision model. Unlike
// the on-device pipeline it does surface errors: masking with the
// placeholder record happens client-side, so a failed proxy call is
// still distinguishable from a real analysis.
type AnalyzeHandler struct {
	backend analysis.Backend
	logger  *zap.Logger
}

// NewAnalyzeHandler creates an analyze handler over the vision backend.
func NewAnalyzeHandler(backend analysis.Backend, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{backend: backend, logger: logger}
}

// AnalyzeRequest is the proxy's wire request: the bare base64 image,
// no data-URI prefix.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// analyzeError matches the failure body the clients expect.
type analyzeError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Analyze handles POST /api/analyze-food. The success body is the
// nutrition record itself, not an envelope.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondRaw(w, http.StatusBadRequest, analyzeError{Error: "invalid request body"})
		return
	}
	if req.Image == "" {
		common.RespondRaw(w, http.StatusBadRequest, analyzeError{Error: "missing image data"})
		return
	}

	rec, err := h.backend.Analyze(r.Context(), req.Image)
	if err != nil {
		h.logger.Error("analysis proxy call failed", zap.Error(err))
		common.RespondRaw(w, http.StatusInternalServerError, analyzeError{
			Error:   "analysis failed",
			Message: err.Error(),
		})
		return
	}

	common.RespondRaw(w, http.StatusOK, rec)
}
