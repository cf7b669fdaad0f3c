package ledger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

func newTestLedger(t *testing.T, path string) *FileLedger {
	t.Helper()
	l, err := NewFileLedger(&config.RuntimeConfig{LedgerPath: path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return l
}

func record(network, address string, variant models.Variant, at time.Time) *models.DeploymentRecord {
	return &models.DeploymentRecord{
		ContractName:    "Leverager",
		Variant:         variant,
		NetworkID:       network,
		ChainID:         250,
		ContractAddress: address,
		TransactionHash: "0xabc",
		BlockNumber:     42,
		ArgSpecUsed: []models.ConstructorArg{
			{Name: models.ArgLendingPool, Value: "0x0000000000000000000000000000000000000001"},
		},
		Artifact:   models.ArtifactRef{Path: "artifacts/contracts/Leverager.sol/Leverager.json"},
		DeployedAt: at,
	}
}

func TestFileLedger_AppendAndFind(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "addresses.json")
	l := newTestLedger(t, path)

	first := record("fantom", "0x00000000000000000000000000000000000000Aa", models.VariantPool, time.Unix(100, 0).UTC())
	require.NoError(t, l.AppendDeployment(ctx, first))

	found, err := l.FindDeployment(ctx, "FANTOM", "0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	assert.Equal(t, first, found)
	assert.NotSame(t, first, found)

	_, err = l.FindDeployment(ctx, "fantom", "0x00000000000000000000000000000000000000bb")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = l.FindDeployment(ctx, "metis", first.ContractAddress)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// mutating the returned copy does not touch the ledger
	found.ContractName = "Other"
	again, err := l.FindDeployment(ctx, "fantom", first.ContractAddress)
	require.NoError(t, err)
	assert.Equal(t, "Leverager", again.ContractName)
}

func TestFileLedger_Verifications(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, filepath.Join(t.TempDir(), "addresses.json"))
	addr := "0x00000000000000000000000000000000000000Aa"

	_, err := l.LatestVerification(ctx, "fantom", addr)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, l.AppendVerification(ctx, "fantom", &models.VerificationResult{
		Status: models.VerificationStatusFailed, Address: addr, Reason: "Fail - Unable to verify",
	}))
	require.NoError(t, l.AppendVerification(ctx, "fantom", &models.VerificationResult{
		Status: models.VerificationStatusVerified, Address: addr, GUID: "guid-1",
	}))

	latest, err := l.LatestVerification(ctx, "fantom", "0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusVerified, latest.Status)
	assert.Equal(t, "guid-1", latest.GUID)

	_, err = l.LatestVerification(ctx, "metis", addr)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileLedger_ListDeployments(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, filepath.Join(t.TempDir(), "addresses.json"))

	require.NoError(t, l.AppendDeployment(ctx, record("metis", "0x01", models.VariantProviderWeth, time.Unix(300, 0))))
	require.NoError(t, l.AppendDeployment(ctx, record("fantom", "0x02", models.VariantPool, time.Unix(200, 0))))
	require.NoError(t, l.AppendDeployment(ctx, record("fantom", "0x03", models.VariantPoolProvider, time.Unix(100, 0))))

	tests := []struct {
		name   string
		filter usecase.DeploymentFilter
		want   []string
	}{
		{name: "all", want: []string{"0x03", "0x02", "0x01"}},
		{name: "by network", filter: usecase.DeploymentFilter{NetworkID: "Fantom"}, want: []string{"0x03", "0x02"}},
		{name: "by variant", filter: usecase.DeploymentFilter{Variant: models.VariantProviderWeth}, want: []string{"0x01"}},
		{name: "by contract", filter: usecase.DeploymentFilter{ContractName: "Other"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.ListDeployments(ctx, tt.filter)
			require.NoError(t, err)

			var addrs []string
			for _, dep := range got {
				addrs = append(addrs, dep.ContractAddress)
			}
			assert.Equal(t, tt.want, addrs)
		})
	}
}

func TestFileLedger_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "addresses.json")

	l := newTestLedger(t, path)
	dep := record("fantom", "0x00000000000000000000000000000000000000Aa", models.VariantPool, time.Unix(100, 0).UTC())
	require.NoError(t, l.AppendDeployment(ctx, dep))
	require.NoError(t, l.AppendVerification(ctx, "fantom", &models.VerificationResult{
		Status: models.VerificationStatusAlreadyVerified, Address: dep.ContractAddress, VerifiedAt: time.Unix(200, 0).UTC(),
	}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Len(t, onDisk["fantom"]["deployments"], 1)
	assert.Len(t, onDisk["fantom"]["verifications"], 1)

	reopened := newTestLedger(t, path)
	found, err := reopened.FindDeployment(ctx, "fantom", dep.ContractAddress)
	require.NoError(t, err)
	assert.Equal(t, dep, found)

	latest, err := reopened.LatestVerification(ctx, "fantom", dep.ContractAddress)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusAlreadyVerified, latest.Status)
}

func TestFileLedger_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "addresses.json")
	l := newTestLedger(t, path)

	networks := []string{"fantom", "metis", "optimism", "avalanche"}
	var wg sync.WaitGroup
	for _, network := range networks {
		wg.Add(1)
		go func(network string) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, l.AppendDeployment(ctx, record(network, "0x01", models.VariantPool, time.Unix(int64(i), 0))))
			}
		}(network)
	}
	wg.Wait()

	all, err := newTestLedger(t, path).ListDeployments(ctx, usecase.DeploymentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestNewFileLedger_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")

	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0644))
	newTestLedger(t, path)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := NewFileLedger(&config.RuntimeConfig{LedgerPath: path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
