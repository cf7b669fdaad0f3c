package models

import (
	"fmt"
	"time"
)

// DeploymentRecord represents a confirmed contract deployment.
// Records are only created after the creation receipt is observed and are
// appended to the ledger, never rewritten.
type DeploymentRecord struct {
	ContractName    string           `json:"contractName" yaml:"contractName"`
	Variant         Variant          `json:"variant" yaml:"variant"`
	NetworkID       string           `json:"network" yaml:"network"`
	ChainID         uint64           `json:"chainId" yaml:"chainId"`
	ContractAddress string           `json:"address" yaml:"address"`
	TransactionHash string           `json:"transactionHash" yaml:"transactionHash"`
	BlockNumber     uint64           `json:"blockNumber" yaml:"blockNumber"`
	Deployer        string           `json:"deployer" yaml:"deployer"`
	ArgSpecUsed     []ConstructorArg `json:"args" yaml:"args"`
	Artifact        ArtifactRef      `json:"artifact" yaml:"artifact"`
	DeployedAt      time.Time        `json:"deployedAt" yaml:"deployedAt"`
}

// DisplayName returns a human-friendly name for the deployment
func (r *DeploymentRecord) DisplayName() string {
	return fmt.Sprintf("%s(%s)", r.ContractName, r.Variant)
}

// DeploymentReceipt is what the chain reports for a confirmed creation
// transaction
type DeploymentReceipt struct {
	ContractAddress string
	TransactionHash string
	BlockNumber     uint64
	ChainID         uint64
	Deployer        string
}

// DeploymentPlan is a validated deployment that has not been submitted
type DeploymentPlan struct {
	Descriptor  *ContractDescriptor
	Artifact    *Artifact
	Params      []any  // ABI-typed constructor values in order
	EncodedArgs string // hex, no 0x prefix
}
