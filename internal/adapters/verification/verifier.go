package verification

import (
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// NewContractVerifier returns the backend selected by [verify].backend
func NewContractVerifier(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.ContractVerifier, error) {
	switch cfg.Verify.Backend {
	case config.VerifyBackendEtherscan, "":
		return NewEtherscanVerifier(cfg.Verify.PollInterval, log), nil
	case config.VerifyBackendHardhat:
		return NewHardhatVerifier(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported verification backend %q", cfg.Verify.Backend)
	}
}
