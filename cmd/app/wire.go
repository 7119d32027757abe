//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/aquasutra/internal/bootstrap"
	"github.com/yanqian/aquasutra/internal/domain/advisor"
	"github.com/yanqian/aquasutra/internal/domain/auth"
	"github.com/yanqian/aquasutra/internal/domain/groundwater"
	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/infra/config"
	gwinfra "github.com/yanqian/aquasutra/internal/infra/groundwater"
	"github.com/yanqian/aquasutra/internal/infra/pincode"
	httpiface "github.com/yanqian/aquasutra/internal/interface/http"
	"github.com/yanqian/aquasutra/pkg/logger"
	"github.com/yanqian/aquasutra/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClock,
		provideMetrics,
		provideCatalog,
		provideEngineConfig,
		provideAuthConfig,
		providePostgresPool,
		provideLocationDirectory,
		provideGroundwaterSource,
		providePriceStore,
		provideMarketSource,
		market.NewResolver,
		provideEngine,
		advisor.NewService,
		groundwater.NewService,
		auth.NewService,
		wire.Bind(new(advisor.Observer), new(*metrics.Metrics)),
		wire.Bind(new(groundwater.StatusSource), new(*gwinfra.Source)),
		wire.Bind(new(httpiface.LocationDirectory), new(*pincode.Directory)),
		wire.Bind(new(httpiface.HTTPRecorder), new(*metrics.Metrics)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
