//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"snaplogd/internal"
	"snaplogd/internal/conversion"
	"snaplogd/internal/providers"
	"snaplogd/internal/registry"
	"snaplogd/internal/services"
	"snaplogd/internal/store"
	"snaplogd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,

		store.NewServerStore,
		store.NewClientStore,
		registry.NewRegistry,

		conversion.NewZstdCompressor,
		conversion.NewHistory,
		conversion.NewSweeper,
		conversion.NewScheduler,

		services.NewDashboardService,
		internal.NewApp,
	)

	return nil, nil
}
