package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/artifacts"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/ledger"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/network"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/verification"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// NetworkSet provides the config-backed network registry
var NetworkSet = wire.NewSet(
	network.NewRegistry,
	wire.Bind(new(usecase.NetworkRegistry), new(*network.Registry)),
)

// ArtifactSet provides hardhat artifact loading
var ArtifactSet = wire.NewSet(
	artifacts.NewLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Loader)),
)

// BlockchainSet provides go-ethereum backed deployment
var BlockchainSet = wire.NewSet(
	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),
)

// VerificationSet provides the configured explorer verification backend
var VerificationSet = wire.NewSet(
	verification.NewContractVerifier,
)

// LedgerSet provides the file-backed address ledger
var LedgerSet = wire.NewSet(
	ledger.NewFileLedger,
	wire.Bind(new(usecase.Ledger), new(*ledger.FileLedger)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.NetworkSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	NetworkSet,
	ArtifactSet,
	BlockchainSet,
	VerificationSet,
	LedgerSet,
	InteractiveSet,
)
