// Package ports defines the interfaces the session layer consumes. The
// managed store behind them is a black-box collaborator; swapping the
// implementation must not change session semantics.
package ports

import (
	"context"

	"nutrilens/domain/meal"
	"nutrilens/domain/profile"
)

// Account identifies an authenticated session with the managed provider.
type Account struct {
	ID          string
	Email       string
	AccessToken string
}

// Authenticator wraps the managed auth provider.
type Authenticator interface {
	// SignUp registers a new account. Returns ErrAccountExists or
	// ErrAccountExistsUnverified when the email is already taken.
	SignUp(ctx context.Context, email, password, name string) (*Account, error)
	// SignIn exchanges credentials for a session. Returns
	// ErrInvalidCredentials or ErrEmailNotConfirmed on rejection.
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignOut(ctx context.Context) error
	// CurrentUser returns the account for an existing session, or nil
	// when no session is active.
	CurrentUser(ctx context.Context) (*Account, error)
}

// ProfileStore mirrors the user profile row.
type ProfileStore interface {
	// GetProfile returns nil without error when no row exists yet.
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	UpsertProfile(ctx context.Context, userID string, p profile.Profile) error
}

// MealStore mirrors the meal log, ordered by creation time descending.
type MealStore interface {
	ListMeals(ctx context.Context, userID string, limit int) ([]meal.Entry, error)
	// InsertMeal persists the entry and returns the store-assigned id.
	InsertMeal(ctx context.Context, userID string, e meal.Entry) (string, error)
	DeleteMeal(ctx context.Context, userID, id string) error
}

// ImageStore uploads captured photos and returns a public URL.
type ImageStore interface {
	UploadImage(ctx context.Context, userID, name string, data []byte) (string, error)
}
