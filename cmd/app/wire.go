//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/flight-fare/internal/bootstrap"
	"github.com/yanqian/flight-fare/internal/domain/fare"
	"github.com/yanqian/flight-fare/internal/infra/config"
	httpiface "github.com/yanqian/flight-fare/internal/interface/http"
	"github.com/yanqian/flight-fare/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFareConfig,
		provideModelSource,
		provideRegressor,
		providePredictionLog,
		providePriceCache,
		fare.NewInvoker,
		fare.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
