package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
)

const (
	DefaultConfigFile   = "lvgdeploy.toml"
	DefaultLedgerFile   = "addresses.json"
	DefaultCredential   = "PK1"
	DefaultContract     = "Leverager"
	DefaultTimeout      = 5 * time.Minute
	DefaultPollInterval = 5 * time.Second

	// EtherscanKeyEnv is consulted when a network has no explorer_key
	EtherscanKeyEnv = "ETHERSCAN_API_KEY"
)

// loadEnvFiles loads .env and .env.local from the project root.
// Variables already present in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadDeployFile decodes lvgdeploy.toml. A missing file yields an empty
// config so that built-in defaults apply.
func LoadDeployFile(path string) (*config.DeployFileConfig, error) {
	var file config.DeployFileConfig

	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &file, nil
		}
		return nil, domain.NewError(domain.ErrInvalidConfig, fmt.Sprintf("parse %s", filepath.Base(path)), err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return nil, domain.NewError(domain.ErrInvalidConfig,
			fmt.Sprintf("unknown keys in %s: %s", filepath.Base(path), strings.Join(keys, ", ")), nil)
	}

	return &file, nil
}

// buildNetworks turns [networks.*] sections into resolved network configs.
// RPC endpoints default to ${<NAME>_RPC_URL} and are expanded here; an unset
// variable leaves the endpoint blank, which the registry reports on resolve.
func buildNetworks(sections map[string]config.NetworkFileConfig, defaultCredential string) map[string]*config.Network {
	networks := make(map[string]*config.Network, len(sections))

	for name, section := range sections {
		rpc := strings.TrimSpace(section.RPC)
		if rpc == "" {
			rpc = "${" + GenerateEnvVarName(name) + "}"
		}
		rpcURL, _ := ExpandEnv(rpc)

		credential := strings.TrimSpace(section.Credential)
		if credential == "" {
			credential = defaultCredential
		}
		if envVar, ok := DetectEnvVar(credential); ok {
			credential = envVar
		}

		apiKey, _ := ExpandEnv(section.ExplorerKey)
		if apiKey == "" {
			apiKey = os.Getenv(EtherscanKeyEnv)
		}

		explorer, _ := ExpandEnv(section.Explorer)
		explorerAPI, _ := ExpandEnv(section.ExplorerAPI)

		addresses := make(map[string]string, len(section.Addresses))
		for key, value := range section.Addresses {
			expanded, _ := ExpandEnv(value)
			addresses[strings.ToLower(key)] = strings.TrimSpace(expanded)
		}

		network := &config.Network{
			Name:           name,
			RPCURL:         strings.TrimSpace(rpcURL),
			ChainID:        section.ChainID,
			Credential:     credential,
			ExplorerURL:    strings.TrimRight(explorer, "/"),
			ExplorerAPIURL: explorerAPI,
			ExplorerAPIKey: apiKey,
			Addresses:      addresses,
		}
		applyKnownDefaults(network)

		networks[name] = network
	}

	return networks
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, domain.NewError(domain.ErrInvalidConfig, field, err)
	}
	if d <= 0 {
		return 0, domain.NewError(domain.ErrInvalidConfig, fmt.Sprintf("%s must be positive, got %s", field, value), nil)
	}
	return d, nil
}

func parseBackend(value string) (config.VerifyBackend, error) {
	switch backend := config.VerifyBackend(strings.ToLower(strings.TrimSpace(value))); backend {
	case "":
		return config.VerifyBackendEtherscan, nil
	case config.VerifyBackendEtherscan, config.VerifyBackendHardhat:
		return backend, nil
	default:
		return "", domain.NewError(domain.ErrInvalidConfig,
			fmt.Sprintf("verify.backend %q (expected %s or %s)", value, config.VerifyBackendEtherscan, config.VerifyBackendHardhat), nil)
	}
}
