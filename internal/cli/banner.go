package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/atsushifx/aglabo-error-core/internal/config"
	"github.com/atsushifx/aglabo-error-core/internal/ui"
)

// PrintReportBanner displays the active report configuration to the user.
// It shows the input source, the output format, any active filters, and the
// long-running mode in effect.
//
// Parameters:
//   - cfg: The report configuration.
//   - out: The writer for the banner, normally the error stream.
func PrintReportBanner(cfg config.ReportConfig, out io.Writer) {
	source := cfg.Input
	if source == config.DefaultInput {
		source = "stdin"
	}
	fmt.Fprintf(out, "--- aglareport ---\n")
	fmt.Fprintf(out, "Reading %s%s%s (format: %s%s%s).\n",
		ui.ColorPrimary(), source, ui.ColorReset(),
		ui.ColorSecondary(), cfg.Format, ui.ColorReset())

	var filters []string
	if cfg.MinSeverity != "" {
		filters = append(filters, "min-severity="+cfg.MinSeverity)
	}
	if cfg.ErrorType != "" {
		filters = append(filters, "error-type="+cfg.ErrorType)
	}
	if len(filters) > 0 {
		fmt.Fprintf(out, "Filters: %s%s%s.\n",
			ui.ColorSecondary(), strings.Join(filters, ", "), ui.ColorReset())
	}

	if cfg.Output != "" {
		fmt.Fprintf(out, "Writing records to %s%s%s.\n", ui.ColorPrimary(), cfg.Output, ui.ColorReset())
	}
	if cfg.Serve {
		fmt.Fprintf(out, "Serving health and metrics on %s%s%s.\n", ui.ColorPrimary(), cfg.Addr, ui.ColorReset())
	}
	if cfg.Follow {
		fmt.Fprintf(out, "Following input growth; interrupt to stop.\n")
	}
}
