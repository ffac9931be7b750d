package localcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrilens/domain/meal"
	"nutrilens/domain/profile"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))
	snap := Snapshot{
		Profile: profile.Profile{Name: "测试", Weight: 70, GoalWeight: 65, DailyCalories: 1900, Height: 172},
		Meals: []meal.Entry{
			{ID: "1", Name: "午餐", Category: meal.Lunch, LoggedAt: "12:30", Calories: 520},
		},
	}

	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Profile, loaded.Profile)
	assert.Equal(t, snap.Meals, loaded.Meals)
}

func TestStore_Load_NoFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))

	loaded, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Save_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	store := NewStore(path)

	require.NoError(t, store.Save(Snapshot{}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, store.Save(Snapshot{Profile: profile.Default()}))

	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing an already-clean store is not an error.
	assert.NoError(t, store.Clear())
}
