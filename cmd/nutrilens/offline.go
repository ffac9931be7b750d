package main

import (
	"context"

	"nutrilens/application/ports"
	"nutrilens/domain/meal"
	"nutrilens/domain/profile"
	"nutrilens/pkg/errors"
)

// offlineStore stands in for the remote stores when no backend is
// configured. The session layer only reaches the remote ports while
// authenticated, so local logging keeps working against this.
type offlineStore struct{}

var errOffline = errors.NewAuthError("no remote backend configured, set SUPABASE_URL and SUPABASE_ANON_KEY")

func (offlineStore) SignUp(ctx context.Context, email, password, name string) (*ports.Account, error) {
	return nil, errOffline
}

func (offlineStore) SignIn(ctx context.Context, email, password string) (*ports.Account, error) {
	return nil, errOffline
}

func (offlineStore) SignOut(ctx context.Context) error { return nil }

func (offlineStore) CurrentUser(ctx context.Context) (*ports.Account, error) {
	return nil, nil
}

func (offlineStore) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	return nil, errOffline
}

func (offlineStore) UpsertProfile(ctx context.Context, userID string, p profile.Profile) error {
	return errOffline
}

func (offlineStore) ListMeals(ctx context.Context, userID string, limit int) ([]meal.Entry, error) {
	return nil, errOffline
}

func (offlineStore) InsertMeal(ctx context.Context, userID string, e meal.Entry) (string, error) {
	return "", errOffline
}

func (offlineStore) DeleteMeal(ctx context.Context, userID, id string) error {
	return errOffline
}

func (offlineStore) UploadImage(ctx context.Context, userID, name string, data []byte) (string, error) {
	return "", errOffline
}
