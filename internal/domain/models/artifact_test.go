package models

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
)

func mustABI(t *testing.T, inputs string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"constructor","stateMutability":"nonpayable","inputs":` + inputs + `}]`))
	require.NoError(t, err)
	return parsed
}

func TestArtifact_ConstructorValues(t *testing.T) {
	artifact := &Artifact{
		ContractName: "Leverager",
		ABI:          mustABI(t, `[{"name":"_pool","type":"address"},{"name":"_provider","type":"address"}]`),
	}

	t.Run("converts addresses in order", func(t *testing.T) {
		values, err := artifact.ConstructorValues(PoolProviderArgs{LendingPool: poolAddr, Provider: providerAddr}.Args())
		require.NoError(t, err)
		assert.Equal(t, []any{common.HexToAddress(poolAddr), common.HexToAddress(providerAddr)}, values)
	})

	t.Run("count mismatch", func(t *testing.T) {
		_, err := artifact.ConstructorValues(PoolArgs{LendingPool: poolAddr}.Args())
		assert.ErrorIs(t, err, domain.ErrArgumentMismatch)
		assert.Contains(t, err.Error(), "takes 2 argument(s), got 1")
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := artifact.ConstructorValues(PoolProviderArgs{LendingPool: poolAddr, Provider: "chainlink"}.Args())
		assert.ErrorIs(t, err, domain.ErrArgumentMismatch)
		assert.Contains(t, err.Error(), "_provider")
	})
}

func TestArtifact_ConstructorValuesScalarTypes(t *testing.T) {
	artifact := &Artifact{
		ContractName: "Config",
		ABI: mustABI(t, `[
			{"name":"a","type":"uint8"},
			{"name":"b","type":"uint256"},
			{"name":"c","type":"int64"},
			{"name":"d","type":"bool"},
			{"name":"e","type":"bytes4"},
			{"name":"f","type":"string"}
		]`),
	}

	values, err := artifact.ConstructorValues([]ConstructorArg{
		{Name: "a", Value: "200"},
		{Name: "b", Value: "0x10"},
		{Name: "c", Value: "-5"},
		{Name: "d", Value: "true"},
		{Name: "e", Value: "0xdeadbeef"},
		{Name: "f", Value: "hello"},
	})
	require.NoError(t, err)

	assert.Equal(t, uint8(200), values[0])
	require.IsType(t, &big.Int{}, values[1])
	assert.Equal(t, int64(16), values[1].(*big.Int).Int64())
	assert.Equal(t, int64(-5), values[2])
	assert.Equal(t, true, values[3])
	assert.Equal(t, [4]byte{0xde, 0xad, 0xbe, 0xef}, values[4])
	assert.Equal(t, "hello", values[5])

	_, err = artifact.ConstructorValues([]ConstructorArg{
		{Name: "a", Value: "256"},
		{Name: "b", Value: "1"},
		{Name: "c", Value: "1"},
		{Name: "d", Value: "true"},
		{Name: "e", Value: "0xdeadbeef"},
		{Name: "f", Value: ""},
	})
	assert.ErrorIs(t, err, domain.ErrArgumentMismatch)
	assert.Contains(t, err.Error(), "out of range for uint8")
}

func TestArtifact_EncodedConstructorArgs(t *testing.T) {
	artifact := &Artifact{
		ContractName: "Leverager",
		SourceName:   "contracts/Leverager.sol",
		ABI:          mustABI(t, `[{"name":"_pool","type":"address"}]`),
	}

	encoded, err := artifact.EncodedConstructorArgs(PoolArgs{LendingPool: poolAddr}.Args())
	require.NoError(t, err)

	want := strings.Repeat("0", 24) + strings.ToLower(strings.TrimPrefix(poolAddr, "0x"))
	assert.Equal(t, want, encoded)

	raw, err := hex.DecodeString(encoded)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	assert.Equal(t, "contracts/Leverager.sol:Leverager", artifact.FullyQualifiedName())
}
