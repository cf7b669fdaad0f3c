package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// DeploymentsRenderer renders the ledger grouped by network
type DeploymentsRenderer struct {
	out    io.Writer
	format Format
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format Format) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the deployment list in the configured format
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result)
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	groups := lo.GroupBy(result.Deployments, func(v *usecase.DeploymentView) string {
		return v.Deployment.NetworkID
	})
	networks := lo.Keys(groups)
	sort.Strings(networks)

	for _, network := range networks {
		views := groups[network]
		networkHeader.Fprintf(r.out, " %s (chain %d) ", network, views[0].Deployment.ChainID)
		fmt.Fprintln(r.out)

		t := newTable(r.out)
		for _, view := range views {
			dep := view.Deployment
			t.AppendRow(table.Row{
				dep.DisplayName(),
				addressStyle.Sprint(dep.ContractAddress),
				statusText(view.Verification),
				timestampStyle.Sprint(dep.DeployedAt.Format("2006-01-02 15:04:05")),
			})
		}
		t.Render()
		fmt.Fprintln(r.out)
	}

	headerStyle.Fprintf(r.out, "Total: %d deployments, %d verified\n", result.Summary.Total, result.Summary.Verified)
	return nil
}
