package usecase

import (
	"context"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// NetworkRegistry resolves network ids into execution contexts
type NetworkRegistry interface {
	Resolve(ctx context.Context, networkID string) (*models.NetworkContext, error)
	Lookup(networkID string) (*config.Network, error)
	List() []*config.Network
	CredentialAvailable(network *config.Network) bool
}

// ArtifactLoader reads compiled contract artifacts
type ArtifactLoader interface {
	Load(ctx context.Context, ref models.ArtifactRef) (*models.Artifact, error)
}

// ContractDeployer submits a creation transaction and waits for its receipt
type ContractDeployer interface {
	Deploy(ctx context.Context, netCtx *models.NetworkContext, artifact *models.Artifact, params []any) (*models.DeploymentReceipt, error)
}

// ContractVerifier submits a deployed contract to a verification backend.
// Backend-reported rejections are returned as a Failed result; the error is
// reserved for transport failures.
type ContractVerifier interface {
	Name() string
	Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error)
}

// DeploymentFilter narrows ledger listings
type DeploymentFilter struct {
	NetworkID    string
	ContractName string
	Variant      models.Variant
}

// Ledger is the append-only addresses ledger
type Ledger interface {
	AppendDeployment(ctx context.Context, record *models.DeploymentRecord) error
	FindDeployment(ctx context.Context, networkID, address string) (*models.DeploymentRecord, error)
	ListDeployments(ctx context.Context, filter DeploymentFilter) ([]*models.DeploymentRecord, error)
	AppendVerification(ctx context.Context, networkID string, result *models.VerificationResult) error
	LatestVerification(ctx context.Context, networkID, address string) (*models.VerificationResult, error)
}

// Confirmer asks the operator to confirm an irreversible action
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// NetworkSelector lets the operator pick a network when none was given
type NetworkSelector interface {
	SelectNetwork(ctx context.Context, networks []*config.Network, prompt string) (*config.Network, error)
}

// Progress tracking interfaces

// ExecutionStage names a step of a network pipeline
type ExecutionStage string

const (
	StageResolving ExecutionStage = "resolving"
	StagePlanning  ExecutionStage = "planning"
	StageDeploying ExecutionStage = "deploying"
	StageVerifying ExecutionStage = "verifying"
	StageCompleted ExecutionStage = "completed"
	StageFailed    ExecutionStage = "failed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Network  string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
