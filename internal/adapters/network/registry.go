package network

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	internalconfig "github.com/trebuchet-org/lvgdeploy/internal/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

const maxSuggestions = 3

// Registry resolves configured network ids into execution contexts
type Registry struct {
	networks  map[string]*config.Network // keyed by lowercase id
	lookupEnv func(string) (string, bool)
	log       *slog.Logger
}

// NewRegistry creates a registry over the networks of the runtime config
func NewRegistry(cfg *config.RuntimeConfig, log *slog.Logger) *Registry {
	networks := make(map[string]*config.Network, len(cfg.Networks))
	for name, network := range cfg.Networks {
		if network.Name == "" {
			network.Name = name
		}
		networks[strings.ToLower(name)] = network
	}

	return &Registry{
		networks:  networks,
		lookupEnv: os.LookupEnv,
		log:       log.With("component", "NetworkRegistry"),
	}
}

// Resolve returns the network context for networkID with its signing key
// materialized
func (r *Registry) Resolve(ctx context.Context, networkID string) (*models.NetworkContext, error) {
	network, err := r.Lookup(networkID)
	if err != nil {
		return nil, err
	}

	if network.RPCURL == "" {
		return nil, domain.NewError(domain.ErrUnknownNetwork,
			fmt.Sprintf("%q has no RPC endpoint (set rpc in [networks.%s] or %s)",
				network.Name, network.Name, internalconfig.GenerateEnvVarName(network.Name)), nil).OnNetwork(network.Name)
	}

	signer, err := r.loadSigner(network)
	if err != nil {
		return nil, err
	}

	r.log.DebugContext(ctx, "resolved network", "network", network.Name, "chainId", network.ChainID, "signer", signer)

	return &models.NetworkContext{
		NetworkID: network.Name,
		RPCURL:    network.RPCURL,
		ChainID:   network.ChainID,
		Signer:    signer,
	}, nil
}

// Lookup returns the network configuration without touching credentials
func (r *Registry) Lookup(networkID string) (*config.Network, error) {
	id := strings.ToLower(strings.TrimSpace(networkID))
	if network, ok := r.networks[id]; ok {
		return network, nil
	}

	detail := fmt.Sprintf("%q is not configured", networkID)
	if suggestions := r.suggest(id); len(suggestions) > 0 {
		detail += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
	} else if len(r.networks) > 0 {
		detail += fmt.Sprintf(" (configured: %s)", strings.Join(r.names(), ", "))
	}
	return nil, domain.NewError(domain.ErrUnknownNetwork, detail, nil)
}

// List returns all configured networks sorted by id
func (r *Registry) List() []*config.Network {
	networks := lo.Values(r.networks)
	sort.Slice(networks, func(i, j int) bool {
		return networks[i].Name < networks[j].Name
	})
	return networks
}

// CredentialAvailable reports whether the network's signing key variable
// holds a usable key
func (r *Registry) CredentialAvailable(network *config.Network) bool {
	_, err := r.loadSigner(network)
	return err == nil
}

func (r *Registry) loadSigner(network *config.Network) (*models.SignerRef, error) {
	envVar := network.Credential
	if envVar == "" {
		return nil, domain.NewError(domain.ErrMissingCredential, "no credential variable configured", nil).OnNetwork(network.Name)
	}

	raw, ok := r.lookupEnv(envVar)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, domain.NewError(domain.ErrMissingCredential,
			fmt.Sprintf("environment variable %s is not set", envVar), nil).OnNetwork(network.Name)
	}

	// the parse error can echo key material, so it is not wrapped
	key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, domain.NewError(domain.ErrMissingCredential,
			fmt.Sprintf("environment variable %s does not hold a valid secp256k1 private key", envVar), nil).OnNetwork(network.Name)
	}

	return models.NewSignerRef(envVar, key), nil
}

// suggest returns configured ids close to id: fuzzy matches of the input
// against the ids, plus ids contained in the input (e.g. arbitrum-one)
func (r *Registry) suggest(id string) []string {
	if id == "" {
		return nil
	}
	names := r.names()

	var suggestions []string
	for _, match := range fuzzy.Find(id, names) {
		suggestions = append(suggestions, match.Str)
	}
	for _, name := range names {
		if len(fuzzy.Find(name, []string{id})) > 0 {
			suggestions = append(suggestions, name)
		}
	}

	suggestions = lo.Uniq(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.networks))
	for _, network := range r.networks {
		names = append(names, network.Name)
	}
	sort.Strings(names)
	return names
}

var _ usecase.NetworkRegistry = (*Registry)(nil)
