package models

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignerRef is an opaque handle to a materialized signing key.
// The key never leaves the handle through formatting, logging or JSON.
type SignerRef struct {
	envVar  string
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSignerRef wraps a private key loaded from envVar
func NewSignerRef(envVar string, key *ecdsa.PrivateKey) *SignerRef {
	return &SignerRef{
		envVar:  envVar,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// EnvVar returns the name of the variable the key was read from
func (s *SignerRef) EnvVar() string {
	return s.envVar
}

// Address returns the account address derived from the key
func (s *SignerRef) Address() common.Address {
	return s.address
}

// PrivateKey returns the key for transaction signing
func (s *SignerRef) PrivateKey() *ecdsa.PrivateKey {
	return s.key
}

func (s *SignerRef) String() string {
	return fmt.Sprintf("signer(%s %s)", s.envVar, s.address.Hex())
}

// GoString keeps %#v from dumping the key material
func (s *SignerRef) GoString() string {
	return s.String()
}

// MarshalJSON serializes only the reference, never the key
func (s *SignerRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EnvVar  string `json:"envVar"`
		Address string `json:"address"`
	}{
		EnvVar:  s.envVar,
		Address: s.address.Hex(),
	})
}

// LogValue implements slog.LogValuer
func (s *SignerRef) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", s.envVar),
		slog.String("address", s.address.Hex()),
	)
}

// NetworkContext is the resolved {endpoint, credential} pair a deployment
// is submitted through. It is built once per run and never mutated.
type NetworkContext struct {
	NetworkID string
	RPCURL    string
	ChainID   uint64 // expected chain id, 0 accepts whatever the endpoint reports
	Signer    *SignerRef
}

// LogValue implements slog.LogValuer
func (n *NetworkContext) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("network", n.NetworkID),
		slog.Uint64("chainId", n.ChainID),
		slog.Any("signer", n.Signer),
	)
}
