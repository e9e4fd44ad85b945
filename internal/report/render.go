// # Naming Conventions
//
// Functions in this file follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayPrettyRecord], [DisplayMalformedLine].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatTextRecord], [FormatSeverityLabel].

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/atsushifx/aglabo-error-core/internal/ui"
)

// Renderer writes one record to the output writer.
type Renderer func(out io.Writer, rec Record)

// RendererFor returns the renderer for a format name. Unknown names fall
// back to the text renderer.
func RendererFor(format string) Renderer {
	switch format {
	case "pretty":
		return DisplayPrettyRecord
	case "json":
		return DisplayJSONRecord
	default:
		return DisplayTextRecord
	}
}

// FormatSeverityLabel returns the display label for a record's severity:
// the canonical name when admitted, the raw value when present but foreign,
// and "-" when absent.
func FormatSeverityLabel(rec Record) string {
	if level := rec.SeverityLevel(); level != 0 {
		return level.String()
	}
	if rec.Severity == nil {
		return "-"
	}
	return fmt.Sprintf("%v", rec.Severity)
}

// FormatTextRecord renders the record as the single-line string form of the
// rebuilt error, suitable for scripting and grepping.
func FormatTextRecord(rec Record) string {
	return rec.Rebuild().Error()
}

// DisplayTextRecord writes the single-line text form of the record.
func DisplayTextRecord(out io.Writer, rec Record) {
	fmt.Fprintln(out, FormatTextRecord(rec))
}

// DisplayJSONRecord echoes the original input line, preserving any fields
// this tool does not model.
func DisplayJSONRecord(out io.Writer, rec Record) {
	fmt.Fprintln(out, rec.Raw)
}

// FormatPrettyRecord renders a record as a colorized multi-line block:
// a header with severity, errorType, code and timestamp, the message below
// it, then one line per context entry in key order.
func FormatPrettyRecord(rec Record) string {
	var b strings.Builder

	sevColor := ui.ColorForSeverity(rec.SeverityLevel())
	fmt.Fprintf(&b, "%s%s[%s]%s %s%s%s",
		sevColor, ui.ColorBold(), FormatSeverityLabel(rec), ui.ColorReset(),
		ui.ColorBold(), rec.ErrorType, ui.ColorReset())
	if rec.Code != "" {
		fmt.Fprintf(&b, "  %scode=%s%s", ui.ColorSecondary(), rec.Code, ui.ColorReset())
	}
	if ts, ok := rec.Timestamp.(string); ok && ts != "" {
		fmt.Fprintf(&b, "  %s%s%s", ui.ColorSecondary(), ts, ui.ColorReset())
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "    %s\n", rec.Message)

	for _, key := range slices.Sorted(maps.Keys(rec.Context)) {
		fmt.Fprintf(&b, "    %s%s:%s %s\n",
			ui.ColorSecondary(), key, ui.ColorReset(), FormatContextValue(rec.Context[key]))
	}
	return b.String()
}

// DisplayPrettyRecord writes the colorized multi-line form of the record.
func DisplayPrettyRecord(out io.Writer, rec Record) {
	fmt.Fprint(out, FormatPrettyRecord(rec))
}

// DisplayMalformedLine reports a line the parser rejected. The raw line is
// truncated so a runaway input cannot flood the report.
func DisplayMalformedLine(out io.Writer, lineNo int, raw string, err error) {
	fmt.Fprintf(out, "%s! line %d: %v%s\n", ui.ColorWarning(), lineNo, err, ui.ColorReset())
	fmt.Fprintf(out, "  %s%s%s\n", ui.ColorSecondary(), truncate(raw, 120), ui.ColorReset())
}

// FormatContextValue renders a context value as compact JSON, falling back
// to plain formatting for values JSON cannot express.
func FormatContextValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// truncate shortens s to at most n bytes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
