package blocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plandto "myday/internal/modules/plan/dto"
	"myday/internal/platform/timeutil"
	"myday/internal/ui/theme"
)

type PlanPort interface {
	GetPlan(ctx context.Context) (plandto.PlanOutput, error)
	Status(ctx context.Context) ([]plandto.BlockStatusOutput, error)
}

type PlanLoadedMsg struct {
	Plan   plandto.PlanOutput
	Status []plandto.BlockStatusOutput
	Err    error
}

// RefreshMsg asks the view to reload the plan and the ledger. The app emits
// it after every session mutation so consumed budgets stay current.
type RefreshMsg struct{}

type activityItem struct {
	activity plandto.ActivityOutput
	block    string
}

func (i activityItem) Title() string {
	if i.activity.Icon != "" {
		return i.activity.Icon + " " + i.activity.Name
	}
	return i.activity.Name
}

func (i activityItem) Description() string {
	return fmt.Sprintf("%s  %s", i.block, timeutil.FormatMinutes(i.activity.DurationMin))
}

func (i activityItem) FilterValue() string { return i.activity.Name }

type Model struct {
	port   PlanPort
	list   list.Model
	ledger viewport.Model
	status []plandto.BlockStatusOutput
	plan   plandto.PlanOutput
	width  int
	height int
}

func New(port PlanPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Activities"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, list: l, ledger: vp}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case RefreshMsg:
		cmds = append(cmds, m.loadCmd())

	case PlanLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Activities: " + msg.Err.Error()
			return m, nil
		}
		m.plan = msg.Plan
		m.status = msg.Status
		blockNames := map[string]string{}
		for _, b := range msg.Plan.Blocks {
			blockNames[b.ID] = b.Name
		}
		items := make([]list.Item, len(msg.Plan.Activities))
		for i, a := range msg.Plan.Activities {
			items[i] = activityItem{activity: a, block: blockNames[a.BlockID]}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.ledger.SetContent(m.renderLedger())
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)

	var vCmd tea.Cmd
	m.ledger, vCmd = m.ledger.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	ledgerW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	ledgerPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(ledgerW - 2).
		Height(m.height - 2).
		Render(m.ledger.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, ledgerPane)
}

// SelectedActivityID returns the current selection's activity ID, if any.
func (m Model) SelectedActivityID() (string, bool) {
	if item, ok := m.list.SelectedItem().(activityItem); ok {
		return item.activity.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	ledgerW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.ledger.Width = ledgerW - 4
	m.ledger.Height = m.height - 4
}

func (m Model) renderLedger() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Block ledger") + "\n\n")
	durations := map[string]int{}
	consumed := map[string]int{}
	for _, b := range m.plan.Blocks {
		durations[b.ID] = b.DurationMin
		consumed[b.ID] = b.ConsumedMin
	}
	for _, s := range m.status {
		bar := progressBar(s.ProgressPct, 24)
		pct := theme.Good.Render(fmt.Sprintf("%5.1f%%", s.ProgressPct))
		if s.ProgressPct > 100 {
			pct = theme.Over.Render(fmt.Sprintf("%5.1f%%", s.ProgressPct))
		}
		sb.WriteString(fmt.Sprintf("%s\n", theme.Hot.Render(s.Name)))
		sb.WriteString(fmt.Sprintf("  %s %s\n", bar, pct))
		sb.WriteString(fmt.Sprintf("  %s %s used, %s left of %s\n\n",
			theme.Muted.Render("·"),
			timeutil.FormatMinutes(consumed[s.ID]),
			timeutil.FormatMinutes(s.RemainingMin),
			timeutil.FormatMinutes(durations[s.ID]),
		))
	}
	sb.WriteString(theme.Muted.Render("s: start selected  w: switch to selected  x: delete selected"))
	return sb.String()
}

func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if pct > 100 {
		return theme.Over.Render(bar)
	}
	return theme.Good.Render(bar)
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		plan, err := m.port.GetPlan(context.Background())
		if err != nil {
			return PlanLoadedMsg{Err: err}
		}
		status, err := m.port.Status(context.Background())
		return PlanLoadedMsg{Plan: plan, Status: status, Err: err}
	}
}
