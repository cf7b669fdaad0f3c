package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

type recordedRun struct {
	dir  string
	name string
	args []string
}

func newTestHardhatVerifier(output string, runErr error, rec *recordedRun) *HardhatVerifier {
	return &HardhatVerifier{
		projectRoot: "/project",
		run: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
			if rec != nil {
				*rec = recordedRun{dir: dir, name: name, args: args}
			}
			return []byte(output), runErr
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHardhatVerifier_Verify(t *testing.T) {
	t.Run("builds command", func(t *testing.T) {
		var rec recordedRun
		v := newTestHardhatVerifier("Successfully verified contract Leverager on the block explorer.", nil, &rec)

		result, err := v.Verify(context.Background(), testRequest(""))
		require.NoError(t, err)
		assert.Equal(t, models.VerificationStatusVerified, result.Status)
		assert.Equal(t, "hardhat", result.Backend)

		assert.Equal(t, "/project", rec.dir)
		assert.Equal(t, "npx", rec.name)
		assert.Equal(t, []string{
			"hardhat", "verify", "--network", "fantom",
			"--contract", "contracts/Leverager.sol:Leverager",
			testAddress, "0x0000000000000000000000000000000000000001",
		}, rec.args)
	})

	t.Run("not found is a transport failure", func(t *testing.T) {
		v := newTestHardhatVerifier("", &exec.Error{Name: "npx", Err: exec.ErrNotFound}, nil)
		_, err := v.Verify(context.Background(), testRequest(""))
		require.Error(t, err)
		assert.ErrorIs(t, err, exec.ErrNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		v := newTestHardhatVerifier("", errors.New("signal: killed"), nil)
		_, err := v.Verify(ctx, testRequest(""))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseHardhatOutput(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		runErr     error
		wantStatus models.VerificationStatus
		wantReason string
	}{
		{
			name:       "verified",
			output:     "Successfully submitted source code\nSuccessfully verified contract Leverager on the block explorer.\n",
			wantStatus: models.VerificationStatusVerified,
		},
		{
			name:       "already verified exits zero",
			output:     "The contract 0x5FbD is already verified.",
			wantStatus: models.VerificationStatusAlreadyVerified,
		},
		{
			name:       "already verified exits non-zero",
			output:     "Error: Contract source code already verified",
			runErr:     errors.New("exit status 1"),
			wantStatus: models.VerificationStatusAlreadyVerified,
		},
		{
			name:       "rejected",
			output:     "Error in plugin @nomiclabs/hardhat-etherscan: The constructor for contracts/Leverager.sol:Leverager has 1 parameters\nbut 2 arguments were provided instead.",
			runErr:     errors.New("exit status 1"),
			wantStatus: models.VerificationStatusFailed,
			wantReason: "Error in plugin @nomiclabs/hardhat-etherscan: The constructor for contracts/Leverager.sol:Leverager has 1 parameters\nbut 2 arguments were provided instead.",
		},
		{
			name:       "no output",
			runErr:     errors.New("exit status 1"),
			wantStatus: models.VerificationStatusFailed,
			wantReason: "exit status 1",
		},
		{
			name:       "unclear",
			output:     "Nothing to compile",
			wantStatus: models.VerificationStatusFailed,
			wantReason: "verification status unclear: Nothing to compile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, reason := parseHardhatOutput(tt.output, tt.runErr)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestNewContractVerifier(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	v, err := NewContractVerifier(&config.RuntimeConfig{}, log)
	require.NoError(t, err)
	assert.Equal(t, "etherscan", v.Name())

	v, err = NewContractVerifier(&config.RuntimeConfig{Verify: config.VerifyConfig{Backend: config.VerifyBackendHardhat}}, log)
	require.NoError(t, err)
	assert.Equal(t, "hardhat", v.Name())

	_, err = NewContractVerifier(&config.RuntimeConfig{Verify: config.VerifyConfig{Backend: "sourcify"}}, log)
	assert.Error(t, err)
}
