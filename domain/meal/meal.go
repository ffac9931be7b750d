// Package meal defines logged meal entries and the calorie-based macro
// estimate used when a record carries no explicit macros.
package meal

import (
	"math"
	"time"

	"github.com/google/uuid"

	"nutrilens/domain/nutrition"
	"nutrilens/domain/recipe"
	"nutrilens/pkg/errors"
)

// Category is the meal slot an entry is logged under.
type Category string

const (
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Dinner    Category = "dinner"
	Snack     Category = "snack"
)

// labels are the display names the app was written with.
var labels = map[Category]string{
	Breakfast: "早餐",
	Lunch:     "午餐",
	Dinner:    "晚餐",
	Snack:     "加餐",
}

// Label returns the display name for the category.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// ParseCategory maps either the wire value or the display label to a
// Category, defaulting to Snack the way ad hoc photo logs do.
func ParseCategory(s string) Category {
	switch s {
	case string(Breakfast), "早餐":
		return Breakfast
	case string(Lunch), "午餐":
		return Lunch
	case string(Dinner), "晚餐":
		return Dinner
	default:
		return Snack
	}
}

// Valid reports whether the category is one of the four meal slots.
func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Entry is a logged meal. Entries are immutable once created: an edit in
// the UI replaces the pending record before its first save, never after.
type Entry struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category Category          `json:"category"`
	LoggedAt string            `json:"loggedAt"`
	Calories float64           `json:"calories"`
	ImageRef string            `json:"imageRef,omitempty"`
	Macros   *nutrition.Macros `json:"macros,omitempty"`
}

// Validate checks entry fields on the way into a store.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return errors.NewValidationError("name is required")
	}
	if !e.Category.Valid() {
		return errors.NewValidationError("category must be breakfast, lunch, dinner or snack")
	}
	if e.Calories < 0 {
		return errors.NewValidationError("calories must be non-negative")
	}
	return nil
}

// Macro estimate for entries logged without explicit macros: 30% of
// calories from protein, 40% from carbs, 30% from fat, at 4/4/9 kcal
// per gram.
const (
	proteinShare = 0.3
	carbShare    = 0.4
	fatShare     = 0.3

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
)

// EstimateMacros derives macros from calories using the fixed ratio.
func EstimateMacros(calories float64) nutrition.Macros {
	return nutrition.Macros{
		Protein: math.Round(calories * proteinShare / kcalPerGramProtein),
		Carbs:   math.Round(calories * carbShare / kcalPerGramCarb),
		Fat:     math.Round(calories * fatShare / kcalPerGramFat),
	}
}

// MacrosOrEstimate returns the entry's macros, estimating from calories
// when none were recorded.
func (e *Entry) MacrosOrEstimate() nutrition.Macros {
	if e.Macros != nil {
		return *e.Macros
	}
	return EstimateMacros(e.Calories)
}

// DisplayTime formats a timestamp the way entries show it in lists.
func DisplayTime(t time.Time) string {
	return t.Format("15:04")
}

// NewFromRecord builds an entry from an analysis result. Photo logs land
// in the snack slot; the user can pick another slot before saving.
func NewFromRecord(rec nutrition.Record, imageRef string, now time.Time) Entry {
	macros := rec.Macros
	return Entry{
		ID:       uuid.New().String(),
		Name:     rec.FoodName,
		Category: Snack,
		LoggedAt: DisplayTime(now),
		Calories: rec.Calories,
		ImageRef: imageRef,
		Macros:   &macros,
	}
}

// NewFromRecipe builds an entry from a recipe selection. Recipe macros
// are not stored; they are estimated from calories on display.
func NewFromRecipe(r recipe.Recipe, now time.Time) Entry {
	return Entry{
		ID:       uuid.New().String(),
		Name:     r.Title,
		Category: Lunch,
		LoggedAt: DisplayTime(now),
		Calories: float64(r.Calories()),
		ImageRef: r.Image,
	}
}

// NewManual builds an entry from user-typed values.
func NewManual(name string, category Category, calories float64, now time.Time) Entry {
	return Entry{
		ID:       uuid.New().String(),
		Name:     name,
		Category: category,
		LoggedAt: DisplayTime(now),
		Calories: calories,
	}
}
