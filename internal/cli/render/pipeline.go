package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// PipelineRenderer prints the per-network outcome of a deploy run
type PipelineRenderer struct {
	out    io.Writer
	verify *VerifyRenderer
}

// NewPipelineRenderer creates a new pipeline renderer
func NewPipelineRenderer(out io.Writer) *PipelineRenderer {
	return &PipelineRenderer{
		out:    out,
		verify: NewVerifyRenderer(out),
	}
}

// Render implements Renderer
func (r *PipelineRenderer) Render(result *usecase.RunPipelineResult) error {
	if result == nil {
		return nil
	}

	if result.DryRun {
		headerStyle.Fprintf(r.out, "Dry run: Leverager(%s)\n", result.Variant)
		for _, outcome := range result.Outcomes {
			if outcome.Plan == nil {
				continue
			}
			fmt.Fprintf(r.out, "  [%s] %s\n", outcome.NetworkID, formatArgs(outcome.Plan.Descriptor.Args()))
			fmt.Fprintf(r.out, "    Encoded: %s\n", outcome.Plan.EncodedArgs)
		}
		return nil
	}

	for _, outcome := range result.Outcomes {
		if outcome.Record == nil {
			msg := "not deployed"
			if outcome.Err != nil {
				msg = outcome.Err.Error()
			}
			fmt.Fprintln(r.out, FormatError(fmt.Sprintf("[%s] %s", outcome.NetworkID, msg)))
			continue
		}

		record := outcome.Record
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("[%s] %s deployed at %s", outcome.NetworkID, record.DisplayName(), addressStyle.Sprint(record.ContractAddress))))
		fmt.Fprintf(r.out, "    Tx: %s (block %d)\n", record.TransactionHash, record.BlockNumber)
		fmt.Fprintf(r.out, "    Args: %s\n", formatArgs(record.ArgSpecUsed))

		if outcome.Verification != nil {
			if err := r.verify.Render(outcome.NetworkID, outcome.Verification); err != nil {
				return err
			}
		}
	}
	return nil
}
