package usecase_test

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/ledger"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

const (
	lendingPool = "0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9"
	provider    = "0xB53C1a33016B2DC2fF3653530bfF1848a515c8c5"
	weth        = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRegistry resolves configured networks with a generated key unless the
// network is listed in missingCredential
type fakeRegistry struct {
	networks          map[string]*config.Network
	missingCredential map[string]bool
	key               *ecdsa.PrivateKey
}

func newFakeRegistry(t *testing.T, networks ...*config.Network) *fakeRegistry {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	r := &fakeRegistry{
		networks:          make(map[string]*config.Network),
		missingCredential: make(map[string]bool),
		key:               key,
	}
	for _, n := range networks {
		r.networks[n.Name] = n
	}
	return r
}

func (r *fakeRegistry) Lookup(networkID string) (*config.Network, error) {
	network, ok := r.networks[strings.ToLower(networkID)]
	if !ok {
		return nil, domain.NewError(domain.ErrUnknownNetwork, fmt.Sprintf("%q is not configured", networkID), nil)
	}
	return network, nil
}

func (r *fakeRegistry) Resolve(ctx context.Context, networkID string) (*models.NetworkContext, error) {
	network, err := r.Lookup(networkID)
	if err != nil {
		return nil, err
	}
	if r.missingCredential[network.Name] {
		return nil, domain.NewError(domain.ErrMissingCredential, network.Credential+" is not set", nil).OnNetwork(network.Name)
	}
	return &models.NetworkContext{
		NetworkID: network.Name,
		RPCURL:    network.RPCURL,
		ChainID:   network.ChainID,
		Signer:    models.NewSignerRef(network.Credential, r.key),
	}, nil
}

func (r *fakeRegistry) List() []*config.Network {
	networks := make([]*config.Network, 0, len(r.networks))
	for _, n := range r.networks {
		networks = append(networks, n)
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i].Name < networks[j].Name })
	return networks
}

func (r *fakeRegistry) CredentialAvailable(network *config.Network) bool {
	return !r.missingCredential[network.Name]
}

// fakeArtifacts serves an artifact whose constructor takes the given
// address parameters
type fakeArtifacts struct {
	artifact *models.Artifact
	err      error
}

func newFakeArtifacts(t *testing.T, params ...string) *fakeArtifacts {
	t.Helper()
	inputs := make([]string, len(params))
	for i, p := range params {
		inputs[i] = fmt.Sprintf(`{"name":%q,"type":"address"}`, p)
	}
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"constructor","stateMutability":"nonpayable","inputs":[` + strings.Join(inputs, ",") + `]}]`))
	require.NoError(t, err)

	return &fakeArtifacts{artifact: &models.Artifact{
		ContractName:      "Leverager",
		SourceName:        "contracts/Leverager.sol",
		ABI:               parsed,
		Bytecode:          []byte{0x60, 0x00},
		CompilerVersion:   "0.8.19+commit.7dd6d404",
		StandardJSONInput: []byte(`{"language":"Solidity"}`),
		OptimizerEnabled:  true,
		OptimizerRuns:     200,
	}}
}

func (f *fakeArtifacts) Load(ctx context.Context, ref models.ArtifactRef) (*models.Artifact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.artifact, nil
}

// fakeDeployer returns a receipt per call. With block set it waits for the
// context to end instead.
type fakeDeployer struct {
	mu     sync.Mutex
	calls  []deployCall
	block  bool
	failOn map[string]error
}

type deployCall struct {
	network string
	params  []any
}

func (d *fakeDeployer) Deploy(ctx context.Context, netCtx *models.NetworkContext, artifact *models.Artifact, params []any) (*models.DeploymentReceipt, error) {
	d.mu.Lock()
	d.calls = append(d.calls, deployCall{network: netCtx.NetworkID, params: params})
	n := len(d.calls)
	d.mu.Unlock()

	if d.block {
		<-ctx.Done()
		return nil, fmt.Errorf("failed waiting for transaction: %w", ctx.Err())
	}
	if err := d.failOn[netCtx.NetworkID]; err != nil {
		return nil, err
	}

	return &models.DeploymentReceipt{
		ContractAddress: fmt.Sprintf("0x%040x", n),
		TransactionHash: fmt.Sprintf("0x%064x", n),
		BlockNumber:     uint64(100 + n),
		ChainID:         netCtx.ChainID,
		Deployer:        netCtx.Signer.Address().Hex(),
	}, nil
}

func (d *fakeDeployer) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// mockVerifier is a testify mock of ContractVerifier
type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Name() string {
	return "etherscan"
}

func (m *mockVerifier) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationResult), args.Error(1)
}

type confirmFunc func(ctx context.Context, message string) (bool, error)

func (f confirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// recordingSink captures progress events
type recordingSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(string)  {}
func (s *recordingSink) Error(string) {}

func (s *recordingSink) messages(stage usecase.ExecutionStage) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.events {
		if e.Stage == stage && e.Message != "" {
			out = append(out, e.Message)
		}
	}
	return out
}

// harness wires the use cases against fakes and a file ledger in a temp dir
type harness struct {
	cfg       *config.RuntimeConfig
	registry  *fakeRegistry
	artifacts *fakeArtifacts
	deployer  *fakeDeployer
	verifier  *mockVerifier
	ledger    *ledger.FileLedger
	sink      *recordingSink
	confirmed []string

	deploy   *usecase.DeployContract
	verify   *usecase.VerifyDeployment
	pipeline *usecase.RunPipeline
}

func fantom() *config.Network {
	return &config.Network{
		Name:           "fantom",
		RPCURL:         "https://rpc.ftm.tools",
		ChainID:        250,
		Credential:     "PK1",
		ExplorerURL:    "https://ftmscan.com",
		ExplorerAPIURL: "https://api.ftmscan.com/api",
		ExplorerAPIKey: "key",
		Addresses: map[string]string{
			models.ArgLendingPool: lendingPool,
			models.ArgProvider:    provider,
		},
	}
}

func metis() *config.Network {
	return &config.Network{
		Name:       "metis",
		RPCURL:     "https://andromeda.metis.io",
		ChainID:    1088,
		Credential: "METIS_PK",
		Addresses: map[string]string{
			models.ArgLendingPool: lendingPool,
			models.ArgProvider:    provider,
			models.ArgWETH:        weth,
		},
	}
}

func newHarness(t *testing.T, constructorParams ...string) *harness {
	t.Helper()

	h := &harness{
		cfg: &config.RuntimeConfig{
			LedgerPath:    filepath.Join(t.TempDir(), "addresses.json"),
			DeployTimeout: 5 * time.Second,
			VerifyTimeout: 5 * time.Second,
			Contract: config.ContractConfig{
				Name:     "Leverager",
				Artifact: "artifacts/contracts/Leverager.sol/Leverager.json",
				Source:   "contracts/Leverager.sol",
			},
		},
		registry:  newFakeRegistry(t, fantom(), metis()),
		artifacts: newFakeArtifacts(t, constructorParams...),
		deployer:  &fakeDeployer{failOn: map[string]error{}},
		verifier:  &mockVerifier{},
		sink:      &recordingSink{},
	}

	var err error
	h.ledger, err = ledger.NewFileLedger(h.cfg, discardLogger())
	require.NoError(t, err)

	h.deploy = usecase.NewDeployContract(h.cfg, h.artifacts, h.deployer, h.ledger, h.sink, discardLogger())
	h.verify = usecase.NewVerifyDeployment(h.cfg, h.registry, h.artifacts, h.verifier, h.ledger, h.sink, discardLogger())

	var mu sync.Mutex
	confirmer := confirmFunc(func(ctx context.Context, message string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		h.confirmed = append(h.confirmed, message)
		return true, nil
	})
	h.pipeline = usecase.NewRunPipeline(h.cfg, h.registry, h.deploy, h.verify, confirmer, h.sink, discardLogger())

	return h
}

func (h *harness) withConfirmer(c usecase.Confirmer) {
	h.pipeline = usecase.NewRunPipeline(h.cfg, h.registry, h.deploy, h.verify, c, h.sink, discardLogger())
}
