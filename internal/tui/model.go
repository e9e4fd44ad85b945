package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/atsushifx/aglabo-error-core/internal/errors"
	"github.com/atsushifx/aglabo-error-core/internal/report"
)

// Layout constants for the record browser.
const (
	headerHeight  = 1
	footerHeight  = 1
	minListHeight = 3
)

// ContextCancelledMsg is sent when the parent context is cancelled.
type ContextCancelledMsg struct {
	Err error
}

// Model is the root bubbletea model for the record browser.
type Model struct {
	records []report.Record
	path    string

	keymap KeyMap

	cursor int
	offset int
	width  int
	height int

	showDetail bool
	exitCode   int
}

// NewModel creates a browser over the given records.
func NewModel(records []report.Record, path string) Model {
	return Model{
		records:  records,
		path:     path,
		keymap:   DefaultKeyMap(),
		exitCode: apperrors.ExitSuccess,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case ContextCancelledMsg:
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Back):
		m.showDetail = false
		return m, nil

	case key.Matches(msg, m.keymap.Select):
		if len(m.records) > 0 {
			m.showDetail = !m.showDetail
		}
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keymap.PageUp):
		m.moveCursor(-m.listHeight())
		return m, nil

	case key.Matches(msg, m.keymap.PageDown):
		m.moveCursor(m.listHeight())
		return m, nil

	case key.Matches(msg, m.keymap.Home):
		m.moveCursor(-len(m.records))
		return m, nil

	case key.Matches(msg, m.keymap.End):
		m.moveCursor(len(m.records))
		return m, nil
	}

	return m, nil
}

// listHeight returns the number of rows available for the record list.
func (m Model) listHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < minListHeight {
		h = minListHeight
	}
	return h
}

// moveCursor shifts the selection by delta, clamping to the record range
// and scrolling the visible window to keep the selection on screen.
func (m *Model) moveCursor(delta int) {
	if len(m.records) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.records)-1 {
		m.cursor = len(m.records) - 1
	}
	m.clampScroll()
}

// clampScroll adjusts the window offset so the cursor stays visible.
func (m *Model) clampScroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, records []report.Record, path string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(records, path)

	p := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Send(ContextCancelledMsg{Err: ctx.Err()})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}
