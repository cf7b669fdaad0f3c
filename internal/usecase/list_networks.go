package usecase

import (
	"context"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the readiness of a configured network
type NetworkStatus struct {
	Network             *config.Network
	HasRPC              bool
	CredentialAvailable bool
	Verifiable          bool // explorer API and key are configured
	Deployments         int
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	registry NetworkRegistry
	ledger   Ledger
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(registry NetworkRegistry, ledger Ledger) *ListNetworks {
	return &ListNetworks{
		registry: registry,
		ledger:   ledger,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	networks := uc.registry.List()

	statuses := make([]NetworkStatus, 0, len(networks))
	for _, network := range networks {
		deployments, err := uc.ledger.ListDeployments(ctx, DeploymentFilter{NetworkID: network.Name})
		if err != nil {
			return nil, err
		}

		statuses = append(statuses, NetworkStatus{
			Network:             network,
			HasRPC:              network.RPCURL != "",
			CredentialAvailable: uc.registry.CredentialAvailable(network),
			Verifiable:          network.ExplorerAPIURL != "" && network.ExplorerAPIKey != "",
			Deployments:         len(deployments),
		})
	}

	return &ListNetworksResult{
		Networks: statuses,
	}, nil
}
