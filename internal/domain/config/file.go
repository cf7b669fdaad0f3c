package config

// DeployFileConfig represents the full lvgdeploy.toml configuration file
type DeployFileConfig struct {
	Contract ContractConfig               `toml:"contract"`
	Compiler CompilerConfig               `toml:"compiler"`
	Defaults DefaultsConfig               `toml:"defaults"`
	Verify   VerifyFileConfig             `toml:"verify"`
	Networks map[string]NetworkFileConfig `toml:"networks"`
}

// DefaultsConfig represents the [defaults] section
type DefaultsConfig struct {
	Credential    string `toml:"credential,omitempty"`
	Ledger        string `toml:"ledger,omitempty"`
	DeployTimeout string `toml:"deploy_timeout,omitempty"`
	VerifyTimeout string `toml:"verify_timeout,omitempty"`
}

// VerifyFileConfig represents the [verify] section
type VerifyFileConfig struct {
	Backend      string `toml:"backend,omitempty"`
	PollInterval string `toml:"poll_interval,omitempty"`
}

// NetworkFileConfig represents a [networks.<name>] section.
// String values may reference the environment as ${VAR}.
type NetworkFileConfig struct {
	RPC         string            `toml:"rpc"`
	ChainID     uint64            `toml:"chain_id,omitempty"`
	Credential  string            `toml:"credential,omitempty"` // overrides defaults.credential
	Explorer    string            `toml:"explorer,omitempty"`
	ExplorerAPI string            `toml:"explorer_api,omitempty"`
	ExplorerKey string            `toml:"explorer_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	Addresses   map[string]string `toml:"addresses,omitempty"`
}
