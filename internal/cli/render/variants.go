package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// RenderVariants lists the registered constructor shapes
func RenderVariants(out io.Writer, variants []models.VariantSpec) error {
	for _, spec := range variants {
		headerStyle.Fprintf(out, "%-14s", spec.Variant)
		fmt.Fprintf(out, " (%s)  %s\n", strings.Join(spec.Params, ", "), spec.Description)
	}
	return nil
}
