package ui

import "github.com/atsushifx/aglabo-error-core/aglaerror"

// Accessor functions for the active theme's escape codes. Presentation code
// calls these instead of holding a Theme value so that a theme change is
// picked up immediately.

// ColorPrimary returns the primary accent escape code.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorSecondary returns the secondary escape code.
func ColorSecondary() string { return GetCurrentTheme().Secondary }

// ColorFatal returns the fatal severity escape code.
func ColorFatal() string { return GetCurrentTheme().Fatal }

// ColorError returns the error severity escape code.
func ColorError() string { return GetCurrentTheme().Error }

// ColorWarning returns the warning severity escape code.
func ColorWarning() string { return GetCurrentTheme().Warning }

// ColorInfo returns the info severity escape code.
func ColorInfo() string { return GetCurrentTheme().Info }

// ColorBold returns the bold escape code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the reset escape code.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorForSeverity returns the escape code used to render the given severity.
// Unknown severities fall back to the secondary color.
func ColorForSeverity(s aglaerror.Severity) string {
	theme := GetCurrentTheme()
	switch s {
	case aglaerror.SeverityFatal:
		return theme.Fatal
	case aglaerror.SeverityError:
		return theme.Error
	case aglaerror.SeverityWarning:
		return theme.Warning
	case aglaerror.SeverityInfo:
		return theme.Info
	default:
		return theme.Secondary
	}
}
