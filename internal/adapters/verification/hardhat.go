package verification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// CommandRunner runs name with args in dir and returns the combined output
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// HardhatVerifier delegates verification to `npx hardhat verify`, which reads
// explorer settings from the project's hardhat config
type HardhatVerifier struct {
	projectRoot string
	run         CommandRunner
	log         *slog.Logger
}

// NewHardhatVerifier creates a verifier running in the project root
func NewHardhatVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *HardhatVerifier {
	return &HardhatVerifier{
		projectRoot: cfg.ProjectRoot,
		run:         execRunner,
		log:         log.With("component", "HardhatVerifier"),
	}
}

// Name returns the backend name recorded in the ledger
func (v *HardhatVerifier) Name() string {
	return string(config.VerifyBackendHardhat)
}

// Verify runs the hardhat verify task and interprets its output
func (v *HardhatVerifier) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error) {
	args := v.buildArgs(req)
	v.log.DebugContext(ctx, "running hardhat verify", "args", strings.Join(args, " "))

	output, err := v.run(ctx, v.projectRoot, "npx", args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("hardhat verify interrupted: %w", ctxErr)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("npx not found in PATH: %w", err)
	}

	result := &models.VerificationResult{
		Address:     req.Address,
		Backend:     v.Name(),
		ExplorerURL: explorerAddressURL(req.Network, req.Address),
	}
	result.Status, result.Reason = parseHardhatOutput(string(output), err)
	return result, nil
}

// buildArgs builds `hardhat verify --network <id> --contract <fqn> <address> <args...>`
func (v *HardhatVerifier) buildArgs(req *models.VerificationRequest) []string {
	args := []string{"hardhat", "verify", "--network", req.Network.Name}
	if req.Artifact != nil && req.Artifact.SourceName != "" {
		args = append(args, "--contract", req.Artifact.FullyQualifiedName())
	}
	args = append(args, req.Address)
	for _, arg := range req.Args {
		args = append(args, arg.Value)
	}
	return args
}

// parseHardhatOutput maps the task output to a status. A non-zero exit is a
// rejection unless the output says the contract was already verified.
func parseHardhatOutput(output string, runErr error) (models.VerificationStatus, string) {
	lower := strings.ToLower(output)

	if strings.Contains(lower, "already verified") {
		return models.VerificationStatusAlreadyVerified, ""
	}
	if runErr == nil && strings.Contains(lower, "successfully verified") {
		return models.VerificationStatusVerified, ""
	}

	reason := lastLines(output, 5)
	if reason == "" && runErr != nil {
		reason = runErr.Error()
	}
	if runErr == nil {
		reason = "verification status unclear: " + reason
	}
	return models.VerificationStatusFailed, reason
}

func lastLines(s string, n int) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(s)), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(string(bytes.Join(lines, []byte("\n"))))
}

var _ usecase.ContractVerifier = (*HardhatVerifier)(nil)
