package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrilens/application/capture"
	"nutrilens/application/ports"
	"nutrilens/domain/meal"
	"nutrilens/domain/nutrition"
	"nutrilens/domain/profile"
	"nutrilens/domain/recipe"
	"nutrilens/infrastructure/persistence/localcache"
)

// fakeRemote implements all store ports in memory with switchable
// failures.
type fakeRemote struct {
	account *ports.Account

	meals    []meal.Entry
	profiles map[string]profile.Profile
	nextID   int

	failInsert  bool
	failDelete  bool
	failList    bool
	failProfile bool
	failUpload  bool

	inserted int
	deleted  []string
	uploads  []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{profiles: map[string]profile.Profile{}, nextID: 100}
}

func (f *fakeRemote) SignUp(ctx context.Context, email, password, name string) (*ports.Account, error) {
	return nil, nil
}

func (f *fakeRemote) SignIn(ctx context.Context, email, password string) (*ports.Account, error) {
	f.account = &ports.Account{ID: "user-1", Email: email, AccessToken: "tok"}
	return f.account, nil
}

func (f *fakeRemote) SignOut(ctx context.Context) error {
	f.account = nil
	return nil
}

func (f *fakeRemote) CurrentUser(ctx context.Context) (*ports.Account, error) {
	return f.account, nil
}

func (f *fakeRemote) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	if f.failProfile {
		return nil, errors.New("profile store down")
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeRemote) UpsertProfile(ctx context.Context, userID string, p profile.Profile) error {
	if f.failProfile {
		return errors.New("profile store down")
	}
	f.profiles[userID] = p
	return nil
}

func (f *fakeRemote) ListMeals(ctx context.Context, userID string, limit int) ([]meal.Entry, error) {
	if f.failList {
		return nil, errors.New("meal store down")
	}
	out := make([]meal.Entry, len(f.meals))
	copy(out, f.meals)
	return out, nil
}

func (f *fakeRemote) InsertMeal(ctx context.Context, userID string, e meal.Entry) (string, error) {
	if f.failInsert {
		return "", errors.New("meal store down")
	}
	f.nextID++
	e.ID = fmt.Sprintf("remote-%d", f.nextID)
	f.meals = append([]meal.Entry{e}, f.meals...)
	f.inserted++
	return e.ID, nil
}

func (f *fakeRemote) DeleteMeal(ctx context.Context, userID, id string) error {
	if f.failDelete {
		return errors.New("meal store down")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) UploadImage(ctx context.Context, userID, name string, data []byte) (string, error) {
	if f.failUpload {
		return "", errors.New("storage down")
	}
	url := "https://cdn.example.com/" + userID + "/" + name
	f.uploads = append(f.uploads, url)
	return url, nil
}

func testDeps(t *testing.T, remote *fakeRemote) Deps {
	t.Helper()
	cache := localcache.NewStore(filepath.Join(t.TempDir(), "state.json"))
	return Deps{
		Auth:     remote,
		Profiles: remote,
		Meals:    remote,
		Images:   remote,
		Cache:    cache,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestManager_Bootstrap_NoSession(t *testing.T) {
	remote := newFakeRemote()
	mgr := NewManager(testDeps(t, remote))

	state := mgr.Bootstrap(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	assert.Nil(t, mgr.Account())
	assert.Equal(t, profile.Default(), mgr.Profile())
	assert.Len(t, mgr.Meals(), 2, "first run seeds the default history")
}

func TestManager_Bootstrap_WithSession_LoadsRemote(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1", Email: "a@b.c"}
	remote.profiles["user-1"] = profile.Profile{Name: "远程", Weight: 70, GoalWeight: 66, DailyCalories: 1800, Height: 170}
	remote.meals = []meal.Entry{{ID: "r1", Name: "远程沙拉", Category: meal.Lunch, Calories: 400}}

	mgr := NewManager(testDeps(t, remote))
	state := mgr.Bootstrap(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "远程", mgr.Profile().Name)
	require.Len(t, mgr.Meals(), 1)
	assert.Equal(t, "r1", mgr.Meals()[0].ID)
}

func TestManager_Bootstrap_RemoteDown_FallsBackToCache(t *testing.T) {
	remote := newFakeRemote()
	deps := testDeps(t, remote)

	// Seed the cache through an unauthenticated session.
	first := NewManager(deps)
	first.Bootstrap(context.Background())
	_, err := first.AddManual(context.Background(), "缓存餐", meal.Snack, 123)
	require.NoError(t, err)

	remote.account = &ports.Account{ID: "user-1"}
	remote.failList = true

	mgr := NewManager(deps)
	state := mgr.Bootstrap(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	require.NotEmpty(t, mgr.Meals())
	assert.Equal(t, "缓存餐", mgr.Meals()[0].Name)
}

func TestManager_AddManual_Unauthenticated_SurvivesRestart(t *testing.T) {
	remote := newFakeRemote()
	deps := testDeps(t, remote)

	mgr := NewManager(deps)
	mgr.Bootstrap(context.Background())
	entry, err := mgr.AddManual(context.Background(), "晚餐面条", meal.Dinner, 520)
	require.NoError(t, err)
	assert.Zero(t, remote.inserted, "no remote write without a session")

	// A fresh manager over the same cache sees the entry.
	reborn := NewManager(deps)
	reborn.Bootstrap(context.Background())
	require.NotEmpty(t, reborn.Meals())
	assert.Equal(t, entry.ID, reborn.Meals()[0].ID)
	assert.Equal(t, "晚餐面条", reborn.Meals()[0].Name)
}

func TestManager_AddManual_Authenticated_AdoptsRemoteID(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())

	entry, err := mgr.AddManual(context.Background(), "鸡胸肉", meal.Dinner, 300)
	require.NoError(t, err)

	assert.Equal(t, 1, remote.inserted)
	assert.Contains(t, entry.ID, "remote-", "caller sees the store-assigned id")
	assert.Equal(t, entry.ID, mgr.Meals()[0].ID, "id swapped in place at the head")
}

func TestManager_AddManual_RemoteInsertFails_EntryStaysLocal(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	remote.failInsert = true
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())
	before := len(mgr.Meals())

	entry, err := mgr.AddManual(context.Background(), "本地餐", meal.Lunch, 410)
	require.NoError(t, err)

	require.Len(t, mgr.Meals(), before+1)
	assert.Equal(t, entry.ID, mgr.Meals()[0].ID, "local id kept when the mirror fails")
	assert.Equal(t, "本地餐", mgr.Meals()[0].Name)
}

func TestManager_AddManual_Invalid(t *testing.T) {
	mgr := NewManager(testDeps(t, newFakeRemote()))
	mgr.Bootstrap(context.Background())

	_, err := mgr.AddManual(context.Background(), "", meal.Lunch, 100)

	assert.Error(t, err)
}

func TestManager_AddFromAnalysis_UploadsThumbnail(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())

	rec := nutrition.Record{FoodName: "牛排", Calories: 600, Macros: nutrition.Macros{Protein: 50, Carbs: 5, Fat: 35}}
	entry := mgr.AddFromAnalysis(context.Background(), rec, capture.Encode([]byte("jpeg")))

	require.Len(t, remote.uploads, 1)
	assert.Equal(t, remote.uploads[0], entry.ImageRef)
	assert.Equal(t, meal.Snack, entry.Category)
	require.NotNil(t, entry.Macros)
	assert.Equal(t, rec.Macros, *entry.Macros)
}

func TestManager_AddFromAnalysis_UploadFails_MealStillLogged(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	remote.failUpload = true
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())

	rec := nutrition.Record{FoodName: "牛排", Calories: 600}
	entry := mgr.AddFromAnalysis(context.Background(), rec, capture.Encode([]byte("jpeg")))

	assert.Empty(t, entry.ImageRef, "upload failure costs only the thumbnail")
	assert.Equal(t, "牛排", mgr.Meals()[0].Name)
	assert.Equal(t, 1, remote.inserted)
}

func TestManager_AddFromRecipe(t *testing.T) {
	mgr := NewManager(testDeps(t, newFakeRemote()))
	mgr.Bootstrap(context.Background())
	r, ok := recipe.ByID(1)
	require.True(t, ok)

	entry := mgr.AddFromRecipe(context.Background(), r)

	assert.Equal(t, r.Title, entry.Name)
	assert.Equal(t, entry.ID, mgr.Meals()[0].ID)
}

func TestManager_DeleteMeal_RemoteFails_StillRemovedLocally(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())
	entry, err := mgr.AddManual(context.Background(), "要删的餐", meal.Snack, 90)
	require.NoError(t, err)

	remote.failDelete = true
	ok := mgr.DeleteMeal(context.Background(), entry.ID)

	assert.True(t, ok)
	for _, e := range mgr.Meals() {
		assert.NotEqual(t, entry.ID, e.ID)
	}
}

func TestManager_DeleteMeal_UnknownID(t *testing.T) {
	mgr := NewManager(testDeps(t, newFakeRemote()))
	mgr.Bootstrap(context.Background())

	assert.False(t, mgr.DeleteMeal(context.Background(), "no-such-id"))
}

func TestManager_UpdateProfile_RoundTrip(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	deps := testDeps(t, remote)
	mgr := NewManager(deps)
	mgr.Bootstrap(context.Background())

	updated := mgr.UpdateProfile(context.Background(), func(p *profile.Profile) {
		p.DailyCalories = 2200
	})

	assert.Equal(t, 2200, updated.DailyCalories)
	assert.Equal(t, 2200, remote.profiles["user-1"].DailyCalories)

	// The edit survives a cold restart via the snapshot.
	remote.account = nil
	reborn := NewManager(deps)
	reborn.Bootstrap(context.Background())
	assert.Equal(t, 2200, reborn.Profile().DailyCalories)
}

func TestManager_UpdateProfile_RemoteFails_LocalEditKept(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())
	remote.failProfile = true

	updated := mgr.UpdateProfile(context.Background(), func(p *profile.Profile) {
		p.Name = "新名字"
	})

	assert.Equal(t, "新名字", updated.Name)
	assert.Equal(t, "新名字", mgr.Profile().Name)
}

func TestManager_SignIn_LoadsRemoteState(t *testing.T) {
	remote := newFakeRemote()
	remote.meals = []meal.Entry{{ID: "r9", Name: "云端餐", Category: meal.Dinner, Calories: 500}}
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())

	require.NoError(t, mgr.SignIn(context.Background(), "a@b.c", "pw"))

	assert.Equal(t, StateAuthenticated, mgr.State())
	require.NotEmpty(t, mgr.Meals())
	assert.Equal(t, "r9", mgr.Meals()[0].ID)
}

func TestManager_SignOut(t *testing.T) {
	remote := newFakeRemote()
	remote.account = &ports.Account{ID: "user-1"}
	mgr := NewManager(testDeps(t, remote))
	mgr.Bootstrap(context.Background())

	mgr.SignOut(context.Background())

	assert.Equal(t, StateUnauthenticated, mgr.State())
	assert.Nil(t, mgr.Account())
}

func TestManager_Summary(t *testing.T) {
	mgr := NewManager(testDeps(t, newFakeRemote()))
	mgr.Bootstrap(context.Background())
	// Default history carries 350 + 480 kcal against a 2000 kcal goal.

	s := mgr.Summary()

	assert.Equal(t, 830.0, s.Consumed)
	assert.Equal(t, 2000, s.Goal)
	assert.Equal(t, 1170.0, s.Remaining)
}

func TestManager_ResetData(t *testing.T) {
	deps := testDeps(t, newFakeRemote())
	mgr := NewManager(deps)
	mgr.Bootstrap(context.Background())
	_, err := mgr.AddManual(context.Background(), "多余的餐", meal.Snack, 999)
	require.NoError(t, err)
	mgr.UpdateProfile(context.Background(), func(p *profile.Profile) { p.DailyCalories = 1500 })

	require.NoError(t, mgr.ResetData())

	assert.Equal(t, profile.Default(), mgr.Profile())
	assert.Len(t, mgr.Meals(), 2)

	// The cleared snapshot means a restart also sees defaults.
	reborn := NewManager(deps)
	reborn.Bootstrap(context.Background())
	assert.Equal(t, profile.Default(), reborn.Profile())
	assert.Len(t, reborn.Meals(), 2)
}
