package app

import (
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector usecase.NetworkSelector

	// Use cases
	RunPipeline      *usecase.RunPipeline
	DeployContract   *usecase.DeployContract
	VerifyDeployment *usecase.VerifyDeployment
	ListNetworks     *usecase.ListNetworks
	ListDeployments  *usecase.ListDeployments
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector usecase.NetworkSelector,
	runPipeline *usecase.RunPipeline,
	deployContract *usecase.DeployContract,
	verifyDeployment *usecase.VerifyDeployment,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
) (*App, error) {
	return &App{
		Config:           cfg,
		Selector:         selector,
		RunPipeline:      runPipeline,
		DeployContract:   deployContract,
		VerifyDeployment: verifyDeployment,
		ListNetworks:     listNetworks,
		ListDeployments:  listDeployments,
	}, nil
}
