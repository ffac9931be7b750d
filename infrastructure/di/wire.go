//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"nutrilens/application/analysis"
	"nutrilens/application/ports"
	"nutrilens/infrastructure/config"
	"nutrilens/interfaces/http/rest"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Backend  analysis.Backend
	Meals    ports.MealStore
	Profiles ports.ProfileStore
	Router   *rest.Router
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideVisionBackend,
	ProvideStores,
	ProvideMealStore,
	ProvideProfileStore,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
