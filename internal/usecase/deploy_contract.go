package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// DeployContract deploys a described contract to one network and records
// the result in the ledger
type DeployContract struct {
	config    *config.RuntimeConfig
	artifacts ArtifactLoader
	deployer  ContractDeployer
	ledger    Ledger
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployContract creates a new deploy use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	artifacts ArtifactLoader,
	deployer ContractDeployer,
	ledger Ledger,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		artifacts: artifacts,
		deployer:  deployer,
		ledger:    ledger,
		progress:  progress,
		log:       log.With("component", "DeployContract"),
		now:       time.Now,
	}
}

// Plan loads the artifact and converts the descriptor's arguments to the
// constructor ABI. It makes no RPC calls.
func (uc *DeployContract) Plan(ctx context.Context, descriptor *models.ContractDescriptor) (*models.DeploymentPlan, error) {
	artifact, err := uc.artifacts.Load(ctx, descriptor.Artifact)
	if err != nil {
		return nil, domain.NewError(domain.ErrDeploymentFailed, "failed to load artifact", err)
	}

	params, packed, err := artifact.PackConstructor(descriptor.Args())
	if err != nil {
		return nil, err
	}

	return &models.DeploymentPlan{
		Descriptor:  descriptor,
		Artifact:    artifact,
		Params:      params,
		EncodedArgs: hex.EncodeToString(packed),
	}, nil
}

// Deploy submits the creation transaction and waits for the receipt within
// deploy_timeout. The transaction is never retried.
func (uc *DeployContract) Deploy(ctx context.Context, netCtx *models.NetworkContext, descriptor *models.ContractDescriptor) (*models.DeploymentRecord, error) {
	plan, err := uc.Plan(ctx, descriptor)
	if err != nil {
		return nil, domain.TagNetwork(err, netCtx.NetworkID)
	}
	return uc.Execute(ctx, netCtx, plan)
}

// Execute deploys a plan produced by Plan
func (uc *DeployContract) Execute(ctx context.Context, netCtx *models.NetworkContext, plan *models.DeploymentPlan) (*models.DeploymentRecord, error) {
	descriptor := plan.Descriptor
	network := netCtx.NetworkID

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeploying,
		Network:  network,
		Message:  fmt.Sprintf("deploying %s(%s) from %s", descriptor.ContractName, descriptor.Variant(), netCtx.Signer.Address().Hex()),
		Spinner:  true,
		Metadata: plan,
	})

	deployCtx := ctx
	if uc.config.DeployTimeout > 0 {
		var cancel context.CancelFunc
		deployCtx, cancel = context.WithTimeout(ctx, uc.config.DeployTimeout)
		defer cancel()
	}

	receipt, err := uc.deployer.Deploy(deployCtx, netCtx, plan.Artifact, plan.Params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(deployCtx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewError(domain.ErrTimeout,
				fmt.Sprintf("no receipt within %s", uc.config.DeployTimeout), err).OnNetwork(network)
		}
		return nil, domain.NewError(domain.ErrDeploymentFailed, "", err).OnNetwork(network)
	}

	record := &models.DeploymentRecord{
		ContractName:    descriptor.ContractName,
		Variant:         descriptor.Variant(),
		NetworkID:       network,
		ChainID:         receipt.ChainID,
		ContractAddress: receipt.ContractAddress,
		TransactionHash: receipt.TransactionHash,
		BlockNumber:     receipt.BlockNumber,
		Deployer:        receipt.Deployer,
		ArgSpecUsed:     descriptor.Args(),
		Artifact:        descriptor.Artifact,
		DeployedAt:      uc.now().UTC(),
	}

	// Report the address before writing the ledger
	uc.log.InfoContext(ctx, "contract deployed",
		"network", network, "contract", record.DisplayName(), "address", record.ContractAddress,
		"tx", record.TransactionHash, "block", record.BlockNumber)
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeploying,
		Network:  network,
		Message:  fmt.Sprintf("%s deployed at %s (tx %s)", record.DisplayName(), record.ContractAddress, record.TransactionHash),
		Metadata: record,
	})

	if err := uc.ledger.AppendDeployment(ctx, record); err != nil {
		return nil, domain.NewError(domain.ErrDeploymentFailed,
			fmt.Sprintf("contract deployed at %s but not recorded", record.ContractAddress), err).OnNetwork(network)
	}

	return record, nil
}
