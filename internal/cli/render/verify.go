package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render prints the outcome of verifying one deployment
func (r *VerifyRenderer) Render(networkID string, result *models.VerificationResult) error {
	fmt.Fprintf(r.out, "%s [%s] %s: %s\n", statusIcon(result), networkID, result.Address, statusText(result))
	if result.Reason != "" && !result.IsVerified() {
		fmt.Fprintf(r.out, "    Reason: %s\n", result.Reason)
	}
	if result.ExplorerURL != "" {
		fmt.Fprintf(r.out, "    Explorer: %s\n", result.ExplorerURL)
	}
	if result.GUID != "" {
		fmt.Fprintf(r.out, "    GUID: %s\n", result.GUID)
	}
	return nil
}
