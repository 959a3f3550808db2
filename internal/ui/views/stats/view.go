package stats

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "myday/internal/modules/session/dto"
	"myday/internal/platform/timeutil"
	"myday/internal/ui/theme"
)

type StatsPort interface {
	Stats(ctx context.Context) (sessiondto.StatsOutput, error)
}

type StatsLoadedMsg struct {
	Stats sessiondto.StatsOutput
	Err   error
}

type RefreshMsg struct{}

type Model struct {
	port    StatsPort
	stats   sessiondto.StatsOutput
	loadErr error
	width   int
	height  int
}

func New(port StatsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case RefreshMsg:
		return m, m.loadCmd()

	case StatsLoadedMsg:
		m.stats = msg.Stats
		m.loadErr = msg.Err
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Today") + "\n\n")
	if m.loadErr != nil {
		sb.WriteString(theme.Muted.Render("load failed: " + m.loadErr.Error()))
	} else {
		s := m.stats
		row := func(label, value string) {
			sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render(fmt.Sprintf("%-14s", label)), value))
		}
		row("active", theme.Good.Render(timeutil.FormatMinutes(s.TotalActiveMin)))
		row("paused", theme.Hot.Render(timeutil.FormatMinutes(s.TotalPauseMin)))
		row("completed", fmt.Sprintf("%d", s.Completed))
		row("switches", fmt.Sprintf("%d", s.Switches))
		row("pauses", fmt.Sprintf("%d", s.Pauses))
		row("events", fmt.Sprintf("%d", s.TotalEvents))
		sb.WriteString("\n" + theme.Muted.Render("e: export daily report"))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.port.Stats(context.Background())
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}
