package meal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrilens/domain/nutrition"
	"nutrilens/domain/recipe"
)

func TestEstimateMacros_FixedRatio(t *testing.T) {
	// 400 kcal: 30% protein at 4 kcal/g, 40% carbs at 4 kcal/g,
	// 30% fat at 9 kcal/g.
	m := EstimateMacros(400)

	assert.Equal(t, 30.0, m.Protein)
	assert.Equal(t, 40.0, m.Carbs)
	assert.Equal(t, 13.0, m.Fat)
}

func TestEstimateMacros_Zero(t *testing.T) {
	m := EstimateMacros(0)

	assert.Equal(t, nutrition.Macros{}, m)
}

func TestEntry_MacrosOrEstimate(t *testing.T) {
	recorded := nutrition.Macros{Protein: 50, Carbs: 5, Fat: 10}
	withMacros := Entry{Calories: 400, Macros: &recorded}
	withoutMacros := Entry{Calories: 400}

	assert.Equal(t, recorded, withMacros.MacrosOrEstimate())
	assert.Equal(t, EstimateMacros(400), withoutMacros.MacrosOrEstimate())
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"breakfast", Breakfast},
		{"早餐", Breakfast},
		{"lunch", Lunch},
		{"午餐", Lunch},
		{"dinner", Dinner},
		{"晚餐", Dinner},
		{"snack", Snack},
		{"加餐", Snack},
		{"", Snack},
		{"brunch", Snack},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCategory(tc.in), "input %q", tc.in)
	}
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "早餐", Breakfast.Label())
	assert.Equal(t, "加餐", Snack.Label())
	assert.Equal(t, "other", Category("other").Label())
}

func TestEntry_Validate(t *testing.T) {
	valid := Entry{Name: "沙拉", Category: Lunch, Calories: 300}
	assert.NoError(t, valid.Validate())

	noName := Entry{Category: Lunch, Calories: 300}
	assert.Error(t, noName.Validate())

	badCategory := Entry{Name: "沙拉", Category: "brunch", Calories: 300}
	assert.Error(t, badCategory.Validate())

	negative := Entry{Name: "沙拉", Category: Lunch, Calories: -1}
	assert.Error(t, negative.Validate())
}

func TestNewFromRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	rec := nutrition.Record{
		FoodName: "鸡胸肉沙拉",
		Calories: 480,
		Macros:   nutrition.Macros{Protein: 40, Carbs: 15, Fat: 20},
	}

	e := NewFromRecord(rec, "https://example.com/1.jpg", now)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "鸡胸肉沙拉", e.Name)
	assert.Equal(t, Snack, e.Category)
	assert.Equal(t, "12:30", e.LoggedAt)
	assert.Equal(t, 480.0, e.Calories)
	assert.Equal(t, "https://example.com/1.jpg", e.ImageRef)
	require.NotNil(t, e.Macros)
	assert.Equal(t, rec.Macros, *e.Macros)
}

func TestNewFromRecipe(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 5, 0, 0, time.UTC)
	r, ok := recipe.ByID(1)
	require.True(t, ok)

	e := NewFromRecipe(r, now)

	assert.Equal(t, r.Title, e.Name)
	assert.Equal(t, Lunch, e.Category)
	assert.Equal(t, float64(r.Calories()), e.Calories)
	assert.Equal(t, "18:05", e.LoggedAt)
	assert.Nil(t, e.Macros)
}

func TestNewManual(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	e := NewManual("燕麦粥", Breakfast, 250, now)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "燕麦粥", e.Name)
	assert.Equal(t, Breakfast, e.Category)
	assert.Equal(t, 250.0, e.Calories)
	assert.Nil(t, e.Macros)
}
