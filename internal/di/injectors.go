//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"hangovr/internal"
	"hangovr/internal/controllers"
	"hangovr/internal/providers"
	"hangovr/internal/services"
	"hangovr/internal/storage"
	"hangovr/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,

		services.NewConfiguredRandomSource,
		services.NewPopulationStore,
		services.NewSessionStore,
		services.NewRankingEngine,
		services.NewPopulationGenerator,
		services.NewHangoverService,
		wire.Bind(new(services.HangoverServiceInterface), new(*services.HangoverService)),
		wire.Bind(new(providers.PopulationGauge), new(*services.HangoverService)),

		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewFileManager,
		storage.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
