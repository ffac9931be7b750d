package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nutrilens/application/ports"
	"nutrilens/domain/meal"
	"nutrilens/interfaces/http/rest/middleware"
	"nutrilens/pkg/common"
	"nutrilens/pkg/utils"
)

// MealHandler serves the authenticated meal log over the configured
// store backend.
type MealHandler struct {
	meals  ports.MealStore
	limit  int
	logger *zap.Logger
}

// NewMealHandler creates a meal handler.
func NewMealHandler(meals ports.MealStore, historyLimit int, logger *zap.Logger) *MealHandler {
	return &MealHandler{meals: meals, limit: historyLimit, logger: logger}
}

// CreateMealRequest is the request body for logging a meal.
type CreateMealRequest struct {
	Name     string   `json:"name" validate:"required,max=120"`
	Category string   `json:"category" validate:"required,oneof=breakfast lunch dinner snack"`
	Calories float64  `json:"calories" validate:"gte=0"`
	ImageRef string   `json:"imageRef,omitempty"`
	Protein  *float64 `json:"protein,omitempty" validate:"omitempty,gte=0"`
	Carbs    *float64 `json:"carbs,omitempty" validate:"omitempty,gte=0"`
	Fat      *float64 `json:"fat,omitempty" validate:"omitempty,gte=0"`
}

// List handles GET /meals
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUser(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	entries, err := h.meals.ListMeals(r.Context(), user.UserID, h.limit)
	if err != nil {
		h.logger.Error("meal list failed", zap.String("user_id", user.UserID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "PERSISTENCE", "cannot load meal history")
		return
	}
	common.RespondJSON(w, http.StatusOK, entries)
}

// Create handles POST /meals
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUser(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	entry := meal.NewManual(req.Name, meal.Category(req.Category), req.Calories, time.Now())
	entry.ImageRef = req.ImageRef
	if req.Protein != nil && req.Carbs != nil && req.Fat != nil {
		macros := entry.MacrosOrEstimate()
		macros.Protein = *req.Protein
		macros.Carbs = *req.Carbs
		macros.Fat = *req.Fat
		entry.Macros = &macros
	}

	assigned, err := h.meals.InsertMeal(r.Context(), user.UserID, entry)
	if err != nil {
		h.logger.Error("meal insert failed", zap.String("user_id", user.UserID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "PERSISTENCE", "cannot save meal")
		return
	}
	entry.ID = assigned
	common.RespondJSON(w, http.StatusCreated, entry)
}

// Delete handles DELETE /meals/{mealID}
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUser(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	mealID := chi.URLParam(r, "mealID")
	if mealID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "meal id is required")
		return
	}

	if err := h.meals.DeleteMeal(r.Context(), user.UserID, mealID); err != nil {
		h.logger.Error("meal delete failed",
			zap.String("user_id", user.UserID),
			zap.String("meal_id", mealID),
			zap.Error(err),
		)
		common.RespondError(w, http.StatusInternalServerError, "PERSISTENCE", "cannot delete meal")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": mealID})
}
