package config

import (
	"sort"
	"strings"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
)

// KnownNetwork holds defaults for a network the Leverager has shipped to
type KnownNetwork struct {
	ChainID        uint64
	ExplorerURL    string
	ExplorerAPIURL string
}

// etherscanV2 serves every chain Etherscan indexes, selected by ?chainid=
const etherscanV2 = "https://api.etherscan.io/v2/api"

var knownNetworks = map[string]KnownNetwork{
	"ethereum": {
		ChainID:        1,
		ExplorerURL:    "https://etherscan.io",
		ExplorerAPIURL: etherscanV2,
	},
	"optimism": {
		ChainID:        10,
		ExplorerURL:    "https://optimistic.etherscan.io",
		ExplorerAPIURL: etherscanV2,
	},
	"binance": {
		ChainID:        56,
		ExplorerURL:    "https://bscscan.com",
		ExplorerAPIURL: etherscanV2,
	},
	"fantom": {
		ChainID:        250,
		ExplorerURL:    "https://ftmscan.com",
		ExplorerAPIURL: "https://api.ftmscan.com/api",
	},
	"metis": {
		ChainID:        1088,
		ExplorerURL:    "https://andromeda-explorer.metis.io",
		ExplorerAPIURL: "https://andromeda-explorer.metis.io/api",
	},
	"arbitrum": {
		ChainID:        42161,
		ExplorerURL:    "https://arbiscan.io",
		ExplorerAPIURL: etherscanV2,
	},
	"avalanche": {
		ChainID:        43114,
		ExplorerURL:    "https://snowtrace.io",
		ExplorerAPIURL: etherscanV2,
	},
}

// LookupKnownNetwork returns the defaults for a well-known network name
func LookupKnownNetwork(name string) (KnownNetwork, bool) {
	known, ok := knownNetworks[strings.ToLower(name)]
	return known, ok
}

// KnownNetworkNames returns the well-known network names sorted
func KnownNetworkNames() []string {
	names := make([]string, 0, len(knownNetworks))
	for name := range knownNetworks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyKnownDefaults fills chain id and explorer settings the config file
// left empty
func applyKnownDefaults(network *config.Network) {
	known, ok := LookupKnownNetwork(network.Name)
	if !ok {
		return
	}
	if network.ChainID == 0 {
		network.ChainID = known.ChainID
	}
	if network.ExplorerURL == "" {
		network.ExplorerURL = known.ExplorerURL
	}
	if network.ExplorerAPIURL == "" {
		network.ExplorerAPIURL = known.ExplorerAPIURL
	}
}
