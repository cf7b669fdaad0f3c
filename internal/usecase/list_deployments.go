package usecase

import (
	"context"
	"errors"

	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// DeploymentView pairs a recorded deployment with its latest verification
type DeploymentView struct {
	Deployment   *models.DeploymentRecord   `json:"deployment" yaml:"deployment"`
	Verification *models.VerificationResult `json:"verification,omitempty" yaml:"verification,omitempty"`
}

// DeploymentListResult contains the listed deployments and a summary
type DeploymentListResult struct {
	Deployments []*DeploymentView `json:"deployments" yaml:"deployments"`
	Summary     DeploymentSummary `json:"summary" yaml:"summary"`
}

// DeploymentSummary counts deployments per network and variant
type DeploymentSummary struct {
	Total     int                    `json:"total" yaml:"total"`
	Verified  int                    `json:"verified" yaml:"verified"`
	ByNetwork map[string]int         `json:"byNetwork" yaml:"byNetwork"`
	ByVariant map[models.Variant]int `json:"byVariant" yaml:"byVariant"`
}

// ListDeployments is the use case for listing the ledger
type ListDeployments struct {
	ledger   Ledger
	registry NetworkRegistry
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(ledger Ledger, registry NetworkRegistry) *ListDeployments {
	return &ListDeployments{
		ledger:   ledger,
		registry: registry,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, filter DeploymentFilter) (*DeploymentListResult, error) {
	if filter.NetworkID != "" {
		network, err := uc.registry.Lookup(filter.NetworkID)
		if err != nil {
			return nil, domain.TagNetwork(err, filter.NetworkID)
		}
		filter.NetworkID = network.Name
	}
	if filter.Variant != "" {
		spec, err := models.LookupVariant(string(filter.Variant))
		if err != nil {
			return nil, err
		}
		filter.Variant = spec.Variant
	}

	deployments, err := uc.ledger.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &DeploymentListResult{
		Deployments: make([]*DeploymentView, 0, len(deployments)),
		Summary: DeploymentSummary{
			ByNetwork: make(map[string]int),
			ByVariant: make(map[models.Variant]int),
		},
	}

	for _, dep := range deployments {
		view := &DeploymentView{Deployment: dep}

		verification, err := uc.ledger.LatestVerification(ctx, dep.NetworkID, dep.ContractAddress)
		switch {
		case err == nil:
			view.Verification = verification
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}

		result.Deployments = append(result.Deployments, view)
		result.Summary.Total++
		result.Summary.ByNetwork[dep.NetworkID]++
		result.Summary.ByVariant[dep.Variant]++
		if view.Verification != nil && view.Verification.IsVerified() {
			result.Summary.Verified++
		}
	}

	return result, nil
}
