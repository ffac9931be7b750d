// Package dynamodb implements the meal and profile store ports on a
// DynamoDB single-table layout, for self-hosted deployments that do not
// use the managed provider.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nutrilens/domain/meal"
	"nutrilens/domain/nutrition"
	"nutrilens/domain/profile"
	"nutrilens/pkg/errors"
)

// Store persists meals and profiles in one table. Meals sort by a
// time-prefixed id so a descending key query returns newest first.
type Store struct {
	client *awsdynamodb.Client
	table  string
	logger *zap.Logger
}

// NewStore builds a store over the given table.
func NewStore(client *awsdynamodb.Client, table string, logger *zap.Logger) *Store {
	return &Store{client: client, table: table, logger: logger}
}

const (
	userKeyPrefix = "USER#"
	mealKeyPrefix = "MEAL#"
	profileSK     = "PROFILE"
)

// mealItem is the stored shape of a meal entry.
type mealItem struct {
	PK       string  `dynamodbav:"PK"`
	SK       string  `dynamodbav:"SK"`
	ID       string  `dynamodbav:"id"`
	Name     string  `dynamodbav:"name"`
	Type     string  `dynamodbav:"type"`
	Time     string  `dynamodbav:"time"`
	Calories float64 `dynamodbav:"calories"`
	Protein  float64 `dynamodbav:"protein"`
	Carbs    float64 `dynamodbav:"carbs"`
	Fat      float64 `dynamodbav:"fat"`
	ImageURL string  `dynamodbav:"image_url,omitempty"`
}

// profileItem is the stored shape of a profile.
type profileItem struct {
	PK            string  `dynamodbav:"PK"`
	SK            string  `dynamodbav:"SK"`
	Name          string  `dynamodbav:"name"`
	Weight        float64 `dynamodbav:"weight"`
	GoalWeight    float64 `dynamodbav:"goal_weight"`
	DailyCalories int     `dynamodbav:"daily_calories"`
	Height        float64 `dynamodbav:"height"`
}

// newMealID builds a creation-time-ordered id, so the sort key carries
// the ordering and delete-by-id still addresses a single item.
func newMealID(now time.Time) string {
	return fmt.Sprintf("%020d-%s", now.UnixNano(), uuid.New().String())
}

func userPK(userID string) string { return userKeyPrefix + userID }
func mealSK(id string) string     { return mealKeyPrefix + id }

func toItem(userID, id string, e meal.Entry) mealItem {
	macros := e.MacrosOrEstimate()
	return mealItem{
		PK:       userPK(userID),
		SK:       mealSK(id),
		ID:       id,
		Name:     e.Name,
		Type:     string(e.Category),
		Time:     e.LoggedAt,
		Calories: e.Calories,
		Protein:  macros.Protein,
		Carbs:    macros.Carbs,
		Fat:      macros.Fat,
		ImageURL: e.ImageRef,
	}
}

func fromItem(item mealItem) meal.Entry {
	macros := nutrition.Macros{Protein: item.Protein, Carbs: item.Carbs, Fat: item.Fat}
	return meal.Entry{
		ID:       item.ID,
		Name:     item.Name,
		Category: meal.ParseCategory(item.Type),
		LoggedAt: item.Time,
		Calories: item.Calories,
		ImageRef: item.ImageURL,
		Macros:   &macros,
	}
}

// ListMeals queries the user's meal partition, newest first.
func (s *Store) ListMeals(ctx context.Context, userID string, limit int) ([]meal.Entry, error) {
	out, err := s.client.Query(ctx, &awsdynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk":     &ddbtypes.AttributeValueMemberS{Value: userPK(userID)},
			":prefix": &ddbtypes.AttributeValueMemberS{Value: mealKeyPrefix},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, errors.NewPersistenceError("meal history query failed").WithCause(err)
	}

	entries := make([]meal.Entry, 0, len(out.Items))
	for _, raw := range out.Items {
		var item mealItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping unreadable meal item", zap.Error(err))
			continue
		}
		entries = append(entries, fromItem(item))
	}
	return entries, nil
}

// InsertMeal writes the entry under a store-assigned id and returns it.
func (s *Store) InsertMeal(ctx context.Context, userID string, e meal.Entry) (string, error) {
	id := newMealID(time.Now())
	item, err := attributevalue.MarshalMap(toItem(userID, id, e))
	if err != nil {
		return "", errors.NewPersistenceError("cannot marshal meal item").WithCause(err)
	}
	_, err = s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return "", errors.NewPersistenceError("meal insert failed").WithCause(err)
	}
	return id, nil
}

// DeleteMeal removes the entry from the user's partition.
func (s *Store) DeleteMeal(ctx context.Context, userID, id string) error {
	_, err := s.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: mealSK(id)},
		},
	})
	if err != nil {
		return errors.NewPersistenceError("meal delete failed").WithCause(err)
	}
	return nil
}

// GetProfile loads the profile item, or nil when none exists.
func (s *Store) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: profileSK},
		},
	})
	if err != nil {
		return nil, errors.NewPersistenceError("profile load failed").WithCause(err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var item profileItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, errors.NewPersistenceError("cannot unmarshal profile item").WithCause(err)
	}
	return &profile.Profile{
		Name:          item.Name,
		Weight:        item.Weight,
		GoalWeight:    item.GoalWeight,
		DailyCalories: item.DailyCalories,
		Height:        item.Height,
	}, nil
}

// UpsertProfile writes the profile item.
func (s *Store) UpsertProfile(ctx context.Context, userID string, p profile.Profile) error {
	item, err := attributevalue.MarshalMap(profileItem{
		PK:            userPK(userID),
		SK:            profileSK,
		Name:          p.Name,
		Weight:        p.Weight,
		GoalWeight:    p.GoalWeight,
		DailyCalories: p.DailyCalories,
		Height:        p.Height,
	})
	if err != nil {
		return errors.NewPersistenceError("cannot marshal profile item").WithCause(err)
	}
	_, err = s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return errors.NewPersistenceError("profile upsert failed").WithCause(err)
	}
	return nil
}
