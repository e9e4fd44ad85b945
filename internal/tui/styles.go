package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	"github.com/atsushifx/aglabo-error-core/internal/ui"
)

// Style variables for the record browser.
// Initialized from the ui theme system via initTUIStyles().
var (
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	pathStyle        lipgloss.Style
	countStyle       lipgloss.Style
	selectedRowStyle lipgloss.Style
	typeStyle        lipgloss.Style
	messageStyle     lipgloss.Style
	dimStyle         lipgloss.Style
	detailKeyStyle   lipgloss.Style
	detailValueStyle lipgloss.Style
	footerKeyStyle   lipgloss.Style
	footerDescStyle  lipgloss.Style

	severityStyles map[aglaerror.Severity]lipgloss.Style
	unrankedStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all browser styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Background(t.Bg).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	pathStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	countStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	selectedRowStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	typeStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	messageStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	detailKeyStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	detailValueStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	severityStyles = make(map[aglaerror.Severity]lipgloss.Style, 4)
	for _, s := range []aglaerror.Severity{
		aglaerror.SeverityFatal,
		aglaerror.SeverityError,
		aglaerror.SeverityWarning,
		aglaerror.SeverityInfo,
	} {
		severityStyles[s] = lipgloss.NewStyle().
			Bold(true).
			Foreground(t.SeverityColor(s))
	}

	unrankedStyle = lipgloss.NewStyle().
		Foreground(t.Dim)
}

// severityStyle returns the style for a severity level, falling back to the
// unranked style for values outside the known range.
func severityStyle(s aglaerror.Severity) lipgloss.Style {
	if style, ok := severityStyles[s]; ok {
		return style
	}
	return unrankedStyle
}
