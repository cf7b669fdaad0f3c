package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/lvgdeploy/internal/config"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the configured networks and their readiness
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in lvgdeploy.toml [networks]")
		fmt.Fprintf(r.out, "Networks with built-in chain and explorer defaults: %s\n", strings.Join(config.KnownNetworkNames(), ", "))
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out)
	t.AppendHeader(table.Row{"NETWORK", "CHAIN ID", "RPC", "CREDENTIAL", "VERIFY", "DEPLOYMENTS"})
	for _, status := range result.Networks {
		t.AppendRow(table.Row{
			status.Network.Name,
			status.Network.ChainID,
			check(status.HasRPC),
			fmt.Sprintf("%s %s", check(status.CredentialAvailable), status.Network.Credential),
			check(status.Verifiable),
			strconv.Itoa(status.Deployments),
		})
	}
	t.Render()
	return nil
}

func check(ok bool) string {
	if ok {
		return verifiedStyle.Sprint("✓")
	}
	return notVerifiedStyle.Sprint("✗")
}

// newTable returns a borderless table writer in the style of the list views
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "  ",
		PaddingRight: " ",
	}
	return t
}
