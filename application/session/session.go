// Package session owns the in-memory profile and meal log for the
// duration of app use and reconciles them with the remote mirror.
//
// Local state is authoritative and updated optimistically: a mutation is
// visible immediately, the remote write is best effort, and a remote
// failure never removes or reorders what the user already sees.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nutrilens/application/capture"
	"nutrilens/application/ports"
	"nutrilens/domain/meal"
	"nutrilens/domain/nutrition"
	"nutrilens/domain/profile"
	"nutrilens/domain/recipe"
	"nutrilens/infrastructure/persistence/localcache"
)

// State is the session bootstrap state.
type State string

const (
	StateUnchecked       State = "unchecked"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Deps are the collaborators a Manager needs. Auth state is passed in
// explicitly rather than read from ambient globals so the layer tests
// without a real auth backend.
type Deps struct {
	Auth     ports.Authenticator
	Profiles ports.ProfileStore
	Meals    ports.MealStore
	Images   ports.ImageStore
	Cache    *localcache.Store
	Logger   *zap.Logger
	Now      func() time.Time
}

// Manager is the reconciliation layer. Mutations happen only on
// discrete user actions from a single caller, so there is no locking.
type Manager struct {
	auth     ports.Authenticator
	profiles ports.ProfileStore
	meals    ports.MealStore
	images   ports.ImageStore
	cache    *localcache.Store
	logger   *zap.Logger
	now      func() time.Time

	state   State
	account *ports.Account
	profile profile.Profile
	entries []meal.Entry
}

// NewManager builds a manager in the unchecked state.
func NewManager(deps Deps) *Manager {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		auth:     deps.Auth,
		profiles: deps.Profiles,
		meals:    deps.Meals,
		images:   deps.Images,
		cache:    deps.Cache,
		logger:   deps.Logger,
		now:      now,
		state:    StateUnchecked,
		profile:  profile.Default(),
	}
}

// State returns the current session state.
func (m *Manager) State() State { return m.state }

// Account returns the authenticated account, or nil.
func (m *Manager) Account() *ports.Account { return m.account }

// Profile returns the in-memory profile.
func (m *Manager) Profile() profile.Profile { return m.profile }

// Meals returns a copy of the meal log, most recent first.
func (m *Manager) Meals() []meal.Entry {
	out := make([]meal.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mealHistoryLimit bounds the remote history load.
const mealHistoryLimit = 50

// Bootstrap resolves the session state at cold start. With a live auth
// session it loads the remote profile and history, falling back to the
// local cache on load failure; without one it loads the cache directly.
func (m *Manager) Bootstrap(ctx context.Context) State {
	account, err := m.auth.CurrentUser(ctx)
	if err != nil {
		m.logger.Warn("auth state check failed", zap.Error(err))
	}
	if err != nil || account == nil {
		m.state = StateUnauthenticated
		m.loadFromCache()
		return m.state
	}

	m.account = account
	m.state = StateAuthenticated
	m.loadRemote(ctx)
	return m.state
}

// SignUp registers a new account with the managed provider. A verified
// session is not established until the email is confirmed, so the state
// stays unauthenticated on success.
func (m *Manager) SignUp(ctx context.Context, email, password, name string) error {
	_, err := m.auth.SignUp(ctx, email, password, name)
	return err
}

// SignIn establishes an authenticated session and loads its data.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	account, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	m.account = account
	m.state = StateAuthenticated
	m.loadRemote(ctx)
	return nil
}

// SignOut ends the session. The remote sign-out is best effort.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.auth.SignOut(ctx); err != nil {
		m.logger.Warn("remote sign-out failed", zap.Error(err))
	}
	m.account = nil
	m.state = StateUnauthenticated
}

// SessionEnded handles an external session-ended notification from the
// auth provider.
func (m *Manager) SessionEnded() {
	m.account = nil
	m.state = StateUnauthenticated
}

// AddFromAnalysis logs an analysis result as a meal. The captured image
// is uploaded for a thumbnail when a session exists; upload failure
// costs only the thumbnail.
func (m *Manager) AddFromAnalysis(ctx context.Context, rec nutrition.Record, image capture.Payload) meal.Entry {
	imageRef := ""
	if m.authenticated() && image != "" {
		if data, err := image.Bytes(); err == nil {
			name := fmt.Sprintf("%d.jpg", m.now().UnixMilli())
			url, err := m.images.UploadImage(ctx, m.account.ID, name, data)
			if err != nil {
				m.logger.Warn("image upload failed, logging meal without thumbnail", zap.Error(err))
			} else {
				imageRef = url
			}
		}
	}
	return m.add(ctx, meal.NewFromRecord(rec, imageRef, m.now()))
}

// AddFromRecipe logs a recipe selection as a meal.
func (m *Manager) AddFromRecipe(ctx context.Context, r recipe.Recipe) meal.Entry {
	return m.add(ctx, meal.NewFromRecipe(r, m.now()))
}

// AddManual logs a user-typed meal.
func (m *Manager) AddManual(ctx context.Context, name string, category meal.Category, calories float64) (meal.Entry, error) {
	e := meal.NewManual(name, category, calories, m.now())
	if err := e.Validate(); err != nil {
		return meal.Entry{}, err
	}
	return m.add(ctx, e), nil
}

// add prepends the entry, mirrors it to the remote store when a session
// exists, and snapshots. A successful mirror only swaps the entry's id
// for the store-assigned one; its position never changes.
func (m *Manager) add(ctx context.Context, e meal.Entry) meal.Entry {
	m.entries = append([]meal.Entry{e}, m.entries...)

	if m.authenticated() {
		assigned, err := m.meals.InsertMeal(ctx, m.account.ID, e)
		if err != nil {
			m.logger.Error("remote meal insert failed, entry stays local for this session",
				zap.String("meal_id", e.ID),
				zap.Error(err),
			)
		} else if assigned != "" && assigned != e.ID {
			m.adoptID(e.ID, assigned)
			e.ID = assigned
		}
	}

	m.saveSnapshot()
	return e
}

// adoptID replaces a locally generated id with the remote-assigned one,
// in place.
func (m *Manager) adoptID(localID, assigned string) {
	for i := range m.entries {
		if m.entries[i].ID == localID {
			m.entries[i].ID = assigned
			return
		}
	}
}

// DeleteMeal removes the entry locally and attempts the remote delete.
// Local removal happens regardless of the remote outcome. Returns false
// when no entry with the id exists.
func (m *Manager) DeleteMeal(ctx context.Context, id string) bool {
	idx := -1
	for i := range m.entries {
		if m.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	if m.authenticated() {
		if err := m.meals.DeleteMeal(ctx, m.account.ID, id); err != nil {
			m.logger.Error("remote meal delete failed, removing locally anyway",
				zap.String("meal_id", id),
				zap.Error(err),
			)
		}
	}

	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	m.saveSnapshot()
	return true
}

// UpdateProfile applies an edit to the in-memory profile and mirrors it
// best effort. The updated profile is returned and visible immediately,
// independent of the remote outcome.
func (m *Manager) UpdateProfile(ctx context.Context, apply func(*profile.Profile)) profile.Profile {
	apply(&m.profile)

	if m.authenticated() {
		if err := m.profiles.UpsertProfile(ctx, m.account.ID, m.profile); err != nil {
			m.logger.Error("remote profile upsert failed, keeping local profile", zap.Error(err))
		}
	}

	m.saveSnapshot()
	return m.profile
}

// ResetData restores defaults and clears the local snapshot.
func (m *Manager) ResetData() error {
	m.profile = profile.Default()
	m.entries = defaultHistory()
	return m.cache.Clear()
}

// DailySummary aggregates logged calories against the daily goal.
type DailySummary struct {
	Consumed  float64
	Goal      int
	Remaining float64
}

// Summary computes the dashboard aggregate over the current log.
func (m *Manager) Summary() DailySummary {
	var consumed float64
	for _, e := range m.entries {
		consumed += e.Calories
	}
	return DailySummary{
		Consumed:  consumed,
		Goal:      m.profile.DailyCalories,
		Remaining: float64(m.profile.DailyCalories) - consumed,
	}
}

func (m *Manager) authenticated() bool {
	return m.state == StateAuthenticated && m.account != nil
}

// loadRemote loads the profile and meal history from the remote store,
// falling back to the local cache when the load fails.
func (m *Manager) loadRemote(ctx context.Context) {
	p, err := m.profiles.GetProfile(ctx, m.account.ID)
	if err != nil {
		m.logger.Warn("remote profile load failed, falling back to local cache", zap.Error(err))
		m.loadFromCache()
		return
	}
	if p != nil {
		m.profile = *p
	}

	entries, err := m.meals.ListMeals(ctx, m.account.ID, mealHistoryLimit)
	if err != nil {
		m.logger.Warn("remote meal history load failed, falling back to local cache", zap.Error(err))
		m.loadFromCache()
		return
	}
	if len(entries) > 0 {
		m.entries = entries
	} else if len(m.entries) == 0 {
		m.entries = defaultHistory()
	}
}

// loadFromCache restores the last snapshot, seeding defaults when none
// exists.
func (m *Manager) loadFromCache() {
	snap, err := m.cache.Load()
	if err != nil {
		m.logger.Warn("local snapshot load failed, using defaults", zap.Error(err))
	}
	if snap == nil {
		m.profile = profile.Default()
		m.entries = defaultHistory()
		return
	}
	m.profile = snap.Profile
	m.entries = snap.Meals
}

// saveSnapshot writes the whole state after a mutation.
func (m *Manager) saveSnapshot() {
	err := m.cache.Save(localcache.Snapshot{
		Profile: m.profile,
		Meals:   m.entries,
	})
	if err != nil {
		m.logger.Warn("local snapshot write failed", zap.Error(err))
	}
}

// defaultHistory seeds the log on first use so the dashboard is not
// empty before the first capture.
func defaultHistory() []meal.Entry {
	oat := nutrition.Macros{Protein: 12, Carbs: 45, Fat: 6}
	salad := nutrition.Macros{Protein: 40, Carbs: 15, Fat: 20}
	return []meal.Entry{
		{
			ID:       "1",
			Name:     "燕麦片配莓果",
			Category: meal.Breakfast,
			LoggedAt: "08:30",
			Calories: 350,
			ImageRef: "https://images.unsplash.com/photo-1517673132405-a56a62b18caf?auto=format&fit=crop&w=200&h=200",
			Macros:   &oat,
		},
		{
			ID:       "2",
			Name:     "香煎鸡肉沙拉",
			Category: meal.Lunch,
			LoggedAt: "12:15",
			Calories: 480,
			ImageRef: "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?auto=format&fit=crop&w=200&h=200",
			Macros:   &salad,
		},
	}
}
