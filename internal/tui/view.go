package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/atsushifx/aglabo-error-core/internal/report"
)

const maxTypeColWidth = 24

// View renders the browser: header, record list or detail, footer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	var body string
	if m.showDetail && m.cursor < len(m.records) {
		body = m.renderDetail(m.records[m.cursor])
	} else {
		body = m.renderList()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderHeader renders the top bar: title, input path, position counter.
func (m Model) renderHeader() string {
	title := titleStyle.Render("aglareport")
	pipe := pathStyle.Render(" | ")
	path := pathStyle.Render(m.path)

	position := ""
	if len(m.records) > 0 {
		position = countStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.records)))
	} else {
		position = countStyle.Render("no records")
	}

	leftPart := title + pipe + path
	leftLen := lipgloss.Width(leftPart)
	rightLen := lipgloss.Width(position)

	innerWidth := m.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}

	gap := innerWidth - leftLen - rightLen
	if gap < 0 {
		gap = 0
	}

	row := leftPart + spaces(gap) + position

	return headerStyle.Width(m.width).Render(row)
}

// renderList renders the scrolled window of record rows.
func (m Model) renderList() string {
	rows := m.listHeight()
	typeWidth := m.typeColumnWidth()

	var b strings.Builder
	for i := 0; i < rows; i++ {
		idx := m.offset + i
		if i > 0 {
			b.WriteString("\n")
		}
		if idx >= len(m.records) {
			continue
		}

		rec := m.records[idx]
		label := fmt.Sprintf("%-7s", report.FormatSeverityLabel(rec))
		errType := fmt.Sprintf("%-*s", typeWidth, clip(rec.ErrorType, typeWidth))

		msgWidth := m.width - 2 - 5 - 7 - typeWidth - 4
		if msgWidth < 8 {
			msgWidth = 8
		}
		msg := clip(rec.Message, msgWidth)

		if idx == m.cursor {
			b.WriteString(selectedRowStyle.Render(fmt.Sprintf("> %4d %s %s  %s", rec.Line, label, errType, msg)))
			continue
		}

		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%4d", rec.Line)))
		b.WriteString(" ")
		b.WriteString(severityStyle(rec.SeverityLevel()).Render(label))
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(errType))
		b.WriteString("  ")
		b.WriteString(messageStyle.Render(msg))
	}

	return b.String()
}

// renderDetail renders the full record the cursor points at.
func (m Model) renderDetail(rec report.Record) string {
	field := func(name, value string) string {
		return detailKeyStyle.Render(fmt.Sprintf("%-10s", name+":")) + " " + detailValueStyle.Render(value)
	}

	lines := make([]string, 0, 10+len(rec.Context))
	lines = append(lines, titleStyle.Render(fmt.Sprintf("record %d/%d", m.cursor+1, len(m.records)))+
		dimStyle.Render(fmt.Sprintf("  (input line %d)", rec.Line)))
	lines = append(lines, "")

	label := report.FormatSeverityLabel(rec)
	lines = append(lines, detailKeyStyle.Render(fmt.Sprintf("%-10s", "severity:"))+" "+
		severityStyle(rec.SeverityLevel()).Render(label))
	lines = append(lines, field("errorType", rec.ErrorType))
	if rec.Code != "" {
		lines = append(lines, field("code", rec.Code))
	}
	if rec.Timestamp != nil {
		lines = append(lines, field("timestamp", fmt.Sprintf("%v", rec.Timestamp)))
	}
	lines = append(lines, field("message", rec.Message))

	if len(rec.Context) > 0 {
		lines = append(lines, detailKeyStyle.Render("context:"))
		for _, k := range slices.Sorted(maps.Keys(rec.Context)) {
			lines = append(lines, "  "+detailKeyStyle.Render(k+":")+" "+
				detailValueStyle.Render(report.FormatContextValue(rec.Context[k])))
		}
	}

	rawWidth := m.width - 7
	if rawWidth < 16 {
		rawWidth = 16
	}
	lines = append(lines, "")
	lines = append(lines, dimStyle.Render("raw: "+clip(rec.Raw, rawWidth)))

	// Pad or cut to the list height so the footer stays put.
	h := m.listHeight()
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// renderFooter renders the key hint bar from the keymap help entries.
func (m Model) renderFooter() string {
	hint := func(b key.Binding) string {
		h := b.Help()
		return footerKeyStyle.Render(h.Key) + " " + footerDescStyle.Render(h.Desc)
	}

	hints := []string{
		footerKeyStyle.Render("↑/↓") + " " + footerDescStyle.Render("move"),
		hint(m.keymap.Select),
		hint(m.keymap.Back),
		hint(m.keymap.Quit),
	}

	return " " + strings.Join(hints, "  ")
}

// typeColumnWidth returns the width of the errorType column, capped so long
// type names cannot squeeze out the message.
func (m Model) typeColumnWidth() int {
	w := 0
	for _, r := range m.records {
		if len(r.ErrorType) > w {
			w = len(r.ErrorType)
		}
	}
	if w > maxTypeColWidth {
		w = maxTypeColWidth
	}
	if w < 4 {
		w = 4
	}
	return w
}

// clip shortens s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
