package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "myday/internal/modules/journal/dto"
	"myday/internal/platform/timeutil"
	"myday/internal/ui/theme"
)

type JournalPort interface {
	Log(ctx context.Context) ([]journaldto.EntryOutput, error)
}

type EntriesLoadedMsg struct {
	Entries []journaldto.EntryOutput
	Err     error
}

type RefreshMsg struct{}

var kindStyles = map[string]lipgloss.Style{
	"start":               theme.Good,
	"pause":               theme.Hot,
	"pause_end":           theme.Hot,
	"switch":              theme.Title,
	"complete":            theme.Good,
	"major_block_consume": theme.Muted,
}

// Model shows the rolling activity window, newest entry on top.
type Model struct {
	port    JournalPort
	view    viewport.Model
	entries []journaldto.EntryOutput
	loadErr error
	width   int
	height  int
}

func New(port JournalPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	return Model{port: port, view: vp}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = msg.Width - 2
		m.view.Height = msg.Height - 2

	case RefreshMsg:
		return m, m.loadCmd()

	case EntriesLoadedMsg:
		m.entries = msg.Entries
		m.loadErr = msg.Err
		m.view.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(m.view.View())
}

func (m Model) render() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Journal (last 24h)") + "\n\n")
	if m.loadErr != nil {
		sb.WriteString(theme.Muted.Render("load failed: " + m.loadErr.Error()))
		return sb.String()
	}
	if len(m.entries) == 0 {
		sb.WriteString(theme.Muted.Render("Nothing yet. Start a session to see it here."))
		return sb.String()
	}
	for _, e := range m.entries {
		style, ok := kindStyles[e.Kind]
		if !ok {
			style = theme.Muted
		}
		line := fmt.Sprintf("%s  %s  %s",
			theme.Muted.Render(e.At.Format("15:04:05")),
			style.Render(fmt.Sprintf("%-19s", e.Kind)),
			e.Description,
		)
		if e.DurationMin > 0 {
			line += theme.Muted.Render("  (" + timeutil.FormatMinutes(e.DurationMin) + ")")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.Log(context.Background())
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}
