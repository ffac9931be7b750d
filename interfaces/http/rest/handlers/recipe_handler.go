package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nutrilens/domain/recipe"
	"nutrilens/pkg/common"
)

// RecipeHandler serves the built-in recipe catalog.
type RecipeHandler struct{}

// NewRecipeHandler creates a recipe handler.
func NewRecipeHandler() *RecipeHandler {
	return &RecipeHandler{}
}

// List handles GET /recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, recipe.Catalog())
}

// Get handles GET /recipes/{recipeID}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "recipeID"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "recipe id must be a number")
		return
	}
	rec, ok := recipe.ByID(id)
	if !ok {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "recipe not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, rec)
}
