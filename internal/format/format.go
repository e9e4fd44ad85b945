// Package format provides small display helpers for durations and counts.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatElapsed formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatCount renders an integer with thousand separators, so large record
// totals stay readable ("1234567" becomes "1,234,567").
func FormatCount(n int) string {
	return formatDigits(strconv.Itoa(n))
}

// formatDigits inserts thousand separators into a decimal digit string.
// A leading sign is preserved.
func formatDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if len(digits) <= 3 {
		return s
	}

	groups := make([]string, 0, len(digits)/3+1)
	if lead := len(digits) % 3; lead > 0 {
		groups = append(groups, digits[:lead])
	}
	for i := len(digits) % 3; i < len(digits); i += 3 {
		groups = append(groups, digits[i:i+3])
	}

	out := strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}
