package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
)

// projectMarkers identify a project root, checked in order
var projectMarkers = []string{DefaultConfigFile, "hardhat.config.ts", "hardhat.config.js"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before anything reads the environment
	loadEnvFiles(projectRoot)

	configFile := v.GetString("config")
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(projectRoot, configFile)
	}

	file, err := LoadDeployFile(configFile)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ConfigFile:     configFile,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		Contract:       contractConfig(file.Contract),
		Compiler:       compilerConfig(file.Compiler),
	}

	cfg.LedgerPath = file.Defaults.Ledger
	if cfg.LedgerPath == "" {
		cfg.LedgerPath = DefaultLedgerFile
	}
	if !filepath.IsAbs(cfg.LedgerPath) {
		cfg.LedgerPath = filepath.Join(projectRoot, cfg.LedgerPath)
	}

	cfg.DefaultCredential = strings.TrimSpace(file.Defaults.Credential)
	if cfg.DefaultCredential == "" {
		cfg.DefaultCredential = DefaultCredential
	}

	if cfg.DeployTimeout, err = resolveDuration(v, "deploy_timeout", file.Defaults.DeployTimeout, DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.VerifyTimeout, err = resolveDuration(v, "verify_timeout", file.Defaults.VerifyTimeout, DefaultTimeout); err != nil {
		return nil, err
	}

	if cfg.Verify.Backend, err = parseBackend(file.Verify.Backend); err != nil {
		return nil, err
	}
	cfg.Verify.PollInterval = DefaultPollInterval
	if file.Verify.PollInterval != "" {
		if cfg.Verify.PollInterval, err = parseDuration("verify.poll_interval", file.Verify.PollInterval); err != nil {
			return nil, err
		}
	}

	cfg.Networks = buildNetworks(file.Networks, cfg.DefaultCredential)

	return cfg, nil
}

func contractConfig(c config.ContractConfig) config.ContractConfig {
	if c.Name == "" {
		c.Name = DefaultContract
	}
	if c.Source == "" {
		c.Source = fmt.Sprintf("contracts/%s.sol", c.Name)
	}
	if c.Artifact == "" {
		c.Artifact = filepath.Join("artifacts", c.Source, c.Name+".json")
	}
	return c
}

// compilerConfig falls back to the hardhat project's solc settings when the
// [compiler] section is absent
func compilerConfig(c config.CompilerConfig) config.CompilerConfig {
	if c.Version == "" && c.Runs == 0 && !c.Optimizer {
		return config.CompilerConfig{Version: "0.8.19", Optimizer: true, Runs: 200}
	}
	return c
}

// resolveDuration prefers an explicit flag or LVG_ variable, then the config
// file, then the fallback
func resolveDuration(v *viper.Viper, key, fileValue string, fallback time.Duration) (time.Duration, error) {
	if v.IsSet(key) {
		return parseDuration(key, v.GetString(key))
	}
	if fileValue != "" {
		return parseDuration("defaults."+key, fileValue)
	}
	return fallback, nil
}

// FindProjectRoot walks up from current directory to find lvgdeploy.toml or
// a hardhat config
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootFrom(dir)
}

func findProjectRootFrom(dir string) (string, error) {
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding a marker
			return "", domain.NewError(domain.ErrInvalidConfig,
				fmt.Sprintf("not in a deployment project (%s not found)", strings.Join(projectMarkers, ", ")), nil)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("LVG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		if err != nil {
			panic(err)
		}
	})

	return v
}
