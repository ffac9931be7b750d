package dynamodb

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrilens/domain/meal"
	"nutrilens/domain/nutrition"
)

func TestNewMealID_TimeOrdered(t *testing.T) {
	earlier := newMealID(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	later := newMealID(time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC))

	assert.True(t, strings.Compare(earlier, later) < 0, "ids must sort by creation time")
	assert.Len(t, strings.SplitN(earlier, "-", 2)[0], 20)
}

func TestMealItem_RoundTrip(t *testing.T) {
	macros := nutrition.Macros{Protein: 40, Carbs: 15, Fat: 20}
	entry := meal.Entry{
		Name:     "鸡胸肉沙拉",
		Category: meal.Lunch,
		LoggedAt: "12:30",
		Calories: 480,
		ImageRef: "https://cdn.example.com/1.jpg",
		Macros:   &macros,
	}

	item := toItem("user-1", "0001-abc", entry)
	assert.Equal(t, "USER#user-1", item.PK)
	assert.Equal(t, "MEAL#0001-abc", item.SK)
	assert.Equal(t, "lunch", item.Type)

	got := fromItem(item)
	assert.Equal(t, "0001-abc", got.ID)
	assert.Equal(t, entry.Name, got.Name)
	assert.Equal(t, entry.Category, got.Category)
	assert.Equal(t, entry.Calories, got.Calories)
	assert.Equal(t, entry.ImageRef, got.ImageRef)
	require.NotNil(t, got.Macros)
	assert.Equal(t, macros, *got.Macros)
}

func TestToItem_EstimatesMissingMacros(t *testing.T) {
	entry := meal.Entry{Name: "米饭", Category: meal.Dinner, Calories: 400}

	item := toItem("user-1", "0002-def", entry)

	assert.Equal(t, 30.0, item.Protein)
	assert.Equal(t, 40.0, item.Carbs)
	assert.Equal(t, 13.0, item.Fat)
}
