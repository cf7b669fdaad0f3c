package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// VerifyDeployment submits recorded deployments to the verification backend
type VerifyDeployment struct {
	config    *config.RuntimeConfig
	registry  NetworkRegistry
	artifacts ArtifactLoader
	verifier  ContractVerifier
	ledger    Ledger
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	registry NetworkRegistry,
	artifacts ArtifactLoader,
	verifier ContractVerifier,
	ledger Ledger,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		config:    cfg,
		registry:  registry,
		artifacts: artifacts,
		verifier:  verifier,
		ledger:    ledger,
		progress:  progress,
		log:       log.With("component", "VerifyDeployment"),
		now:       time.Now,
	}
}

// VerifyAddressParams identifies a recorded deployment to verify
type VerifyAddressParams struct {
	NetworkID string
	Address   string
	Overrides map[string]string // --arg name=value, checked against the recorded arguments
}

// VerifyAddress verifies the deployment the ledger holds for address on a
// network, rebuilding the descriptor from the recorded variant and arguments
func (uc *VerifyDeployment) VerifyAddress(ctx context.Context, params VerifyAddressParams) (*models.VerificationResult, error) {
	network, err := uc.registry.Lookup(params.NetworkID)
	if err != nil {
		return nil, domain.TagNetwork(err, params.NetworkID)
	}

	record, err := uc.ledger.FindDeployment(ctx, network.Name, params.Address)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no deployment at %s recorded for %s, deploy it with lvgdeploy first: %w", params.Address, network.Name, err)
		}
		return nil, err
	}

	values := models.ArgValues(record.ArgSpecUsed)
	for name, value := range params.Overrides {
		values[strings.ToLower(name)] = value
	}
	descriptor, err := models.BuildDescriptor(record.ContractName, record.Artifact, string(record.Variant), values)
	if err != nil {
		return nil, domain.TagNetwork(err, network.Name)
	}

	return uc.Verify(ctx, record, descriptor)
}

// Verify submits record to the verification backend using descriptor's
// arguments, which must equal the arguments the contract was deployed with.
// A Failed backend outcome is returned as a result, not an error.
func (uc *VerifyDeployment) Verify(ctx context.Context, record *models.DeploymentRecord, descriptor *models.ContractDescriptor) (*models.VerificationResult, error) {
	networkID := record.NetworkID

	if !models.EqualArgs(descriptor.Args(), record.ArgSpecUsed) {
		return nil, domain.NewError(domain.ErrArgumentMismatch,
			fmt.Sprintf("verification arguments %s differ from deployed arguments %s",
				formatArgs(descriptor.Args()), formatArgs(record.ArgSpecUsed)), nil).OnNetwork(networkID)
	}

	if prior, err := uc.ledger.LatestVerification(ctx, networkID, record.ContractAddress); err == nil && prior.IsVerified() {
		uc.log.DebugContext(ctx, "already verified according to ledger", "network", networkID, "address", record.ContractAddress)
		result := *prior
		result.Status = models.VerificationStatusAlreadyVerified
		uc.report(ctx, networkID, &result)
		return &result, nil
	}

	network, err := uc.registry.Lookup(networkID)
	if err != nil {
		return nil, domain.TagNetwork(err, networkID)
	}

	artifact, err := uc.artifacts.Load(ctx, record.Artifact)
	if err != nil {
		return nil, domain.NewError(domain.ErrVerificationFailed, "failed to load artifact", err).OnNetwork(networkID)
	}

	encoded, err := artifact.EncodedConstructorArgs(record.ArgSpecUsed)
	if err != nil {
		return nil, domain.TagNetwork(err, networkID)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageVerifying,
		Network: networkID,
		Message: fmt.Sprintf("verifying %s at %s with %s", record.DisplayName(), record.ContractAddress, uc.verifier.Name()),
		Spinner: true,
	})

	verifyCtx := ctx
	if uc.config.VerifyTimeout > 0 {
		var cancel context.CancelFunc
		verifyCtx, cancel = context.WithTimeout(ctx, uc.config.VerifyTimeout)
		defer cancel()
	}

	result, err := uc.verifier.Verify(verifyCtx, &models.VerificationRequest{
		Network:     network,
		Address:     record.ContractAddress,
		Artifact:    artifact,
		Args:        record.ArgSpecUsed,
		EncodedArgs: encoded,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(verifyCtx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewError(domain.ErrTimeout,
				fmt.Sprintf("verification not confirmed within %s", uc.config.VerifyTimeout), err).OnNetwork(networkID)
		}
		return nil, domain.NewError(domain.ErrVerificationFailed, "", err).OnNetwork(networkID)
	}

	if result.Backend == "" {
		result.Backend = uc.verifier.Name()
	}
	if result.Address == "" {
		result.Address = record.ContractAddress
	}
	result.VerifiedAt = uc.now().UTC()

	if err := uc.ledger.AppendVerification(ctx, networkID, result); err != nil {
		return nil, domain.NewError(domain.ErrVerificationFailed, "failed to record verification", err).OnNetwork(networkID)
	}

	uc.log.InfoContext(ctx, "verification finished",
		"network", networkID, "address", result.Address, "status", result.Status, "backend", result.Backend)
	uc.report(ctx, networkID, result)

	return result, nil
}

func (uc *VerifyDeployment) report(ctx context.Context, networkID string, result *models.VerificationResult) {
	event := ProgressEvent{
		Stage:    StageVerifying,
		Network:  networkID,
		Metadata: result,
	}
	switch result.Status {
	case models.VerificationStatusFailed:
		event.Message = fmt.Sprintf("verification of %s failed: %s", result.Address, result.Reason)
	case models.VerificationStatusAlreadyVerified:
		event.Message = fmt.Sprintf("%s is already verified", result.Address)
	default:
		event.Message = fmt.Sprintf("%s verified", result.Address)
	}
	if result.ExplorerURL != "" && result.IsVerified() {
		event.Message += " " + result.ExplorerURL
	}
	uc.progress.OnProgress(ctx, event)
}

// VerificationError turns a Failed result into a VerificationFailed error
func VerificationError(networkID string, result *models.VerificationResult) error {
	if result == nil || result.IsVerified() {
		return nil
	}
	return domain.NewError(domain.ErrVerificationFailed,
		fmt.Sprintf("%s rejected %s", result.Backend, result.Address), errors.New(result.Reason)).OnNetwork(networkID)
}

func formatArgs(args []models.ConstructorArg) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Name + "=" + arg.Value
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
