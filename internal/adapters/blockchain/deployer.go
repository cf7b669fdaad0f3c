package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// Client is the subset of an RPC client needed to deploy a contract
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc connects to an RPC endpoint
type DialFunc func(ctx context.Context, rpcURL string) (Client, error)

// DialEthclient dials rpcURL with go-ethereum's ethclient
func DialEthclient(ctx context.Context, rpcURL string) (Client, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Deployer submits contract creation transactions and waits for them to be
// mined
type Deployer struct {
	dial DialFunc
	log  *slog.Logger
}

// NewDeployer creates a deployer that dials networks with ethclient
func NewDeployer(log *slog.Logger) *Deployer {
	return &Deployer{
		dial: DialEthclient,
		log:  log.With("component", "Deployer"),
	}
}

// Deploy sends the creation transaction for artifact with the ABI-typed
// constructor params and blocks until the receipt is available or ctx ends.
// The transaction is never resent.
func (d *Deployer) Deploy(ctx context.Context, netCtx *models.NetworkContext, artifact *models.Artifact, params []any) (*models.DeploymentReceipt, error) {
	client, err := d.dial(ctx, netCtx.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	if closer, ok := client.(interface{ Close() }); ok {
		defer closer.Close()
	}

	// Verify chain ID matches
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if netCtx.ChainID != 0 && chainID.Uint64() != netCtx.ChainID {
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", netCtx.ChainID, chainID.Uint64())
	}

	opts, err := bind.NewKeyedTransactorWithChainID(netCtx.Signer.PrivateKey(), chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, client, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment transaction: %w", err)
	}

	d.log.InfoContext(ctx, "deployment transaction sent",
		"network", netCtx.NetworkID, "tx", tx.Hash().Hex(), "address", address.Hex(), "nonce", tx.Nonce())

	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted in block %s", tx.Hash().Hex(), receipt.BlockNumber)
	}

	// A successful receipt without code means the constructor returned nothing
	code, err := client.CodeAt(ctx, address, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no code at %s after transaction %s", address.Hex(), tx.Hash().Hex())
	}

	return &models.DeploymentReceipt{
		ContractAddress: address.Hex(),
		TransactionHash: tx.Hash().Hex(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
		ChainID:         chainID.Uint64(),
		Deployer:        netCtx.Signer.Address().Hex(),
	}, nil
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
