//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters"
	"github.com/trebuchet-org/lvgdeploy/internal/config"
	"github.com/trebuchet-org/lvgdeploy/internal/logging"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewVerifyDeployment,
		usecase.NewRunPipeline,
		usecase.NewListNetworks,
		usecase.NewListDeployments,

		// App
		NewApp,
	)
	return nil, nil
}
