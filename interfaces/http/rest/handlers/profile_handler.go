package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"nutrilens/application/ports"
	"nutrilens/domain/profile"
	"nutrilens/interfaces/http/rest/middleware"
	"nutrilens/pkg/common"
	"nutrilens/pkg/utils"
)

// ProfileHandler serves the authenticated user profile.
type ProfileHandler struct {
	profiles ports.ProfileStore
	logger   *zap.Logger
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(profiles ports.ProfileStore, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// UpdateProfileRequest is the request body for a profile upsert.
type UpdateProfileRequest struct {
	Name          string  `json:"name" validate:"required,max=80"`
	Weight        float64 `json:"weight" validate:"gte=0"`
	GoalWeight    float64 `json:"goalWeight" validate:"gte=0"`
	DailyCalories int     `json:"dailyCalories" validate:"gte=0"`
	Height        float64 `json:"height" validate:"gte=0"`
}

// Get handles GET /profile. With no stored row it answers the first-use
// defaults instead of a 404, matching the session layer's behavior.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUser(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	p, err := h.profiles.GetProfile(r.Context(), user.UserID)
	if err != nil {
		h.logger.Error("profile load failed", zap.String("user_id", user.UserID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "PERSISTENCE", "cannot load profile")
		return
	}
	if p == nil {
		defaults := profile.Default()
		p = &defaults
	}
	common.RespondJSON(w, http.StatusOK, p)
}

// Update handles PUT /profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUser(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	p := profile.Profile{
		Name:          req.Name,
		Weight:        req.Weight,
		GoalWeight:    req.GoalWeight,
		DailyCalories: req.DailyCalories,
		Height:        req.Height,
	}
	if err := h.profiles.UpsertProfile(r.Context(), user.UserID, p); err != nil {
		h.logger.Error("profile upsert failed", zap.String("user_id", user.UserID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "PERSISTENCE", "cannot save profile")
		return
	}
	common.RespondJSON(w, http.StatusOK, p)
}
