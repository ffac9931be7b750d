package di

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"nutrilens/application/analysis"
	"nutrilens/application/ports"
	"nutrilens/infrastructure/config"
	"nutrilens/infrastructure/persistence/dynamodb"
	"nutrilens/infrastructure/persistence/supabase"
	"nutrilens/infrastructure/vision"
	"nutrilens/interfaces/http/rest"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideVisionBackend creates the direct vision-model backend the
// proxy serves from.
func ProvideVisionBackend(cfg *config.Config, logger *zap.Logger) analysis.Backend {
	return vision.NewDashScope(cfg.DashScopeEndpoint, cfg.DashScopeAPIKey, cfg.VisionModel, logger)
}

// Stores bundles the store ports for the configured backend. The
// DynamoDB backend has no image storage; thumbnails are a Supabase
// feature.
type Stores struct {
	Meals    ports.MealStore
	Profiles ports.ProfileStore
	Images   ports.ImageStore
	Auth     ports.Authenticator
}

// ProvideStores selects the remote store backend from configuration.
func ProvideStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if cfg.StoreBackend == config.StoreBackendDynamoDB {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, err
		}
		store := dynamodb.NewStore(awsdynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger)
		return &Stores{Meals: store, Profiles: store}, nil
	}

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.StorageBucket, "", logger)
	if err != nil {
		return nil, err
	}
	return &Stores{Meals: client, Profiles: client, Images: client, Auth: client}, nil
}

// ProvideMealStore extracts the meal store port
func ProvideMealStore(s *Stores) ports.MealStore { return s.Meals }

// ProvideProfileStore extracts the profile store port
func ProvideProfileStore(s *Stores) ports.ProfileStore { return s.Profiles }

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	backend analysis.Backend,
	meals ports.MealStore,
	profiles ports.ProfileStore,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, backend, meals, profiles, logger)
}
