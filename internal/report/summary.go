package report

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	"github.com/atsushifx/aglabo-error-core/internal/format"
	"github.com/atsushifx/aglabo-error-core/internal/ui"
)

// Summary accumulates per-severity and per-type totals over one stream pass.
// It implements Sink so it can sit alongside the renderer on the read loop.
// Not safe for concurrent use.
type Summary struct {
	Total      int
	Malformed  int
	Unranked   int
	BySeverity map[aglaerror.Severity]int
	ByType     map[string]int
}

// NewSummary returns an empty summary ready to receive records.
func NewSummary() *Summary {
	return &Summary{
		BySeverity: make(map[aglaerror.Severity]int),
		ByType:     make(map[string]int),
	}
}

// HandleRecord counts one record.
func (s *Summary) HandleRecord(rec Record) error {
	s.Total++
	s.ByType[rec.ErrorType]++
	if level := rec.SeverityLevel(); level != 0 {
		s.BySeverity[level]++
	} else {
		s.Unranked++
	}
	return nil
}

// HandleMalformed counts one rejected line.
func (s *Summary) HandleMalformed(int, string, error) {
	s.Malformed++
}

// severityOrder lists severities from most to least severe for display.
var severityOrder = []aglaerror.Severity{
	aglaerror.SeverityFatal,
	aglaerror.SeverityError,
	aglaerror.SeverityWarning,
	aglaerror.SeverityInfo,
}

// DisplaySummary displays the per-severity and per-type totals in a
// formatted tabular layout. Uses manual padding to correctly handle ANSI
// color codes.
func DisplaySummary(out io.Writer, s *Summary) {
	fmt.Fprintf(out, "\n--- Report Summary ---\n")
	fmt.Fprintf(out, "Records: %s   Malformed lines: %s\n",
		format.FormatCount(s.Total), format.FormatCount(s.Malformed))

	for _, level := range severityOrder {
		count := s.BySeverity[level]
		if count == 0 {
			continue
		}
		fmt.Fprintf(out, "  %s%-7s%s %s\n", ui.ColorForSeverity(level), level.String(), ui.ColorReset(), format.FormatCount(count))
	}
	if s.Unranked > 0 {
		fmt.Fprintf(out, "  %s%-7s%s %s\n", ui.ColorSecondary(), "OTHER", ui.ColorReset(), format.FormatCount(s.Unranked))
	}

	if len(s.ByType) == 0 {
		return
	}

	// Find the maximum type name width for proper alignment
	maxNameLen := 9 // "errorType" header length
	for name := range s.ByType {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	fmt.Fprintf(out, "\n%serrorType%s%s   %sCount%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-9),
		ui.ColorUnderline(), ui.ColorReset())
	for _, name := range slices.Sorted(maps.Keys(s.ByType)) {
		fmt.Fprintf(out, "%s%s%s%s   %s\n",
			ui.ColorPrimary(), name, ui.ColorReset(), padRight("", maxNameLen-len(name)),
			format.FormatCount(s.ByType[name]))
	}
}

// padRight returns a string of spaces with the given length.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
