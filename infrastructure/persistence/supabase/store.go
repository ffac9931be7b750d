// Package supabase implements the managed-store ports against the
// Supabase auth, database and storage services.
package supabase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"nutrilens/domain/meal"
	"nutrilens/domain/nutrition"
	"nutrilens/domain/profile"
	"nutrilens/pkg/errors"
)

// Client wraps the Supabase client behind the store ports. One client
// serves auth, rows and storage; the session layer only sees the
// interfaces.
type Client struct {
	client      *supa.Client
	bucket      string
	sessionPath string
	session     types.Session
	logger      *zap.Logger
}

// NewClient connects to the project. sessionPath, when non-empty, is
// where the auth session is persisted between cold starts.
func NewClient(url, anonKey, bucket, sessionPath string, logger *zap.Logger) (*Client, error) {
	client, err := supa.NewClient(url, anonKey, &supa.ClientOptions{})
	if err != nil {
		return nil, errors.NewPersistenceError("cannot create supabase client").WithCause(err)
	}
	c := &Client{
		client:      client,
		bucket:      bucket,
		sessionPath: sessionPath,
		logger:      logger,
	}
	c.restoreSession()
	return c, nil
}

// profileRow mirrors the profiles table. Height is a local-only field
// and has no column.
type profileRow struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	GoalWeight    float64 `json:"goal_weight"`
	DailyCalories int     `json:"daily_calories"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// mealRow mirrors the meals table.
type mealRow struct {
	ID       string  `json:"id,omitempty"`
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Time     string  `json:"time"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	ImageURL string  `json:"image_url,omitempty"`
}

func toEntry(r mealRow) meal.Entry {
	macros := nutrition.Macros{Protein: r.Protein, Carbs: r.Carbs, Fat: r.Fat}
	return meal.Entry{
		ID:       r.ID,
		Name:     r.Name,
		Category: meal.ParseCategory(r.Type),
		LoggedAt: r.Time,
		Calories: r.Calories,
		ImageRef: r.ImageURL,
		Macros:   &macros,
	}
}

func toRow(userID string, e meal.Entry) mealRow {
	macros := e.MacrosOrEstimate()
	return mealRow{
		UserID:   userID,
		Name:     e.Name,
		Type:     e.Category.Label(),
		Time:     e.LoggedAt,
		Calories: e.Calories,
		Protein:  macros.Protein,
		Carbs:    macros.Carbs,
		Fat:      macros.Fat,
		ImageURL: e.ImageRef,
	}
}

// GetProfile loads the profile row, or nil when none exists yet.
func (c *Client) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var rows []profileRow
	_, err := c.client.From("profiles").
		Select("*", "", false).
		Eq("id", userID).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewPersistenceError("profile load failed").WithCause(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &profile.Profile{
		Name:          r.Name,
		Weight:        r.Weight,
		GoalWeight:    r.GoalWeight,
		DailyCalories: r.DailyCalories,
		Height:        profile.Default().Height,
	}, nil
}

// UpsertProfile creates or updates the profile row.
func (c *Client) UpsertProfile(ctx context.Context, userID string, p profile.Profile) error {
	row := profileRow{
		ID:            userID,
		Name:          p.Name,
		Weight:        p.Weight,
		GoalWeight:    p.GoalWeight,
		DailyCalories: p.DailyCalories,
	}
	_, _, err := c.client.From("profiles").
		Upsert(row, "", "", "").
		Execute()
	if err != nil {
		return errors.NewPersistenceError("profile upsert failed").WithCause(err)
	}
	return nil
}

// ListMeals returns the meal history, newest first.
func (c *Client) ListMeals(ctx context.Context, userID string, limit int) ([]meal.Entry, error) {
	var rows []mealRow
	_, err := c.client.From("meals").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.NewPersistenceError("meal history load failed").WithCause(err)
	}
	entries := make([]meal.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, toEntry(r))
	}
	return entries, nil
}

// InsertMeal persists the entry and returns the row id Supabase
// assigned.
func (c *Client) InsertMeal(ctx context.Context, userID string, e meal.Entry) (string, error) {
	var inserted []mealRow
	_, err := c.client.From("meals").
		Insert(toRow(userID, e), false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return "", errors.NewPersistenceError("meal insert failed").WithCause(err)
	}
	if len(inserted) == 0 {
		return "", errors.NewPersistenceError("meal insert returned no row")
	}
	return inserted[0].ID, nil
}

// DeleteMeal removes the row. Scoped to the user so one session cannot
// delete another's rows.
func (c *Client) DeleteMeal(ctx context.Context, userID, id string) error {
	_, _, err := c.client.From("meals").
		Delete("", "").
		Eq("id", id).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return errors.NewPersistenceError("meal delete failed").WithCause(err)
	}
	return nil
}

// UploadImage stores the photo under the user's prefix and returns the
// public URL.
func (c *Client) UploadImage(ctx context.Context, userID, name string, data []byte) (string, error) {
	path := fmt.Sprintf("%s/%s", userID, name)
	_, err := c.client.Storage.UploadFile(c.bucket, path, bytes.NewReader(data))
	if err != nil {
		return "", errors.NewPersistenceError("image upload failed").WithCause(err)
	}
	res := c.client.Storage.GetPublicUrl(c.bucket, path)
	return res.SignedURL, nil
}
