package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	ConfigFile  string
	LedgerPath  string

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	DeployTimeout  time.Duration
	VerifyTimeout  time.Duration

	// Resolved configurations
	Contract          ContractConfig
	Compiler          CompilerConfig
	Verify            VerifyConfig
	DefaultCredential string
	Networks          map[string]*Network
}

// ContractConfig names the contract and its compiled artifact
type ContractConfig struct {
	Name     string `toml:"name"`
	Artifact string `toml:"artifact"` // e.g. artifacts/contracts/Leverager.sol/Leverager.json
	Source   string `toml:"source"`   // e.g. contracts/Leverager.sol
}

// CompilerConfig mirrors the solc settings the artifacts were built with
type CompilerConfig struct {
	Version   string `toml:"version"`
	Optimizer bool   `toml:"optimizer"`
	Runs      int    `toml:"runs"`
}

// VerifyBackend selects how contracts are verified
type VerifyBackend string

const (
	VerifyBackendEtherscan VerifyBackend = "etherscan"
	VerifyBackendHardhat   VerifyBackend = "hardhat"
)

// VerifyConfig holds verification backend settings
type VerifyConfig struct {
	Backend      VerifyBackend
	PollInterval time.Duration
}

// Network represents a configured network
type Network struct {
	Name           string            `json:"name" yaml:"name"`
	RPCURL         string            `json:"rpcUrl" yaml:"rpcUrl"`
	ChainID        uint64            `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Credential     string            `json:"credential" yaml:"credential"` // env var holding the signing key
	ExplorerURL    string            `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	ExplorerAPIURL string            `json:"explorerApiUrl,omitempty" yaml:"explorerApiUrl,omitempty"`
	ExplorerAPIKey string            `json:"-" yaml:"-"`
	Addresses      map[string]string `json:"addresses,omitempty" yaml:"addresses,omitempty"`
}
