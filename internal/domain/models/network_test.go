package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRef_NeverExposesKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	secret := strings.TrimPrefix(hexutil.Encode(crypto.FromECDSA(key)), "0x")

	signer := NewSignerRef("PK1", key)
	ctx := &NetworkContext{NetworkID: "fantom", RPCURL: "https://rpc.ftm.tools", ChainID: 250, Signer: signer}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	logger.Info("resolved", "ctx", ctx, "signer", signer)

	encoded, err := json.Marshal(ctx)
	require.NoError(t, err)

	outputs := map[string]string{
		"String":  signer.String(),
		"%v":      fmt.Sprintf("%v", signer),
		"%+v":     fmt.Sprintf("%+v", signer),
		"%#v":     fmt.Sprintf("%#v", signer),
		"context": fmt.Sprintf("%v", *ctx),
		"json":    string(encoded),
		"slog":    logs.String(),
	}
	for name, out := range outputs {
		t.Run(name, func(t *testing.T) {
			assert.NotContains(t, strings.ToLower(out), secret)
		})
	}

	assert.Contains(t, signer.String(), "PK1")
	assert.Contains(t, logs.String(), signer.Address().Hex())
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.Address())
}
