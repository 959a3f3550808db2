package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "myday/internal/modules/journal/dto"
	plandto "myday/internal/modules/plan/dto"
	sessiondto "myday/internal/modules/session/dto"
	"myday/internal/ui/components"
	"myday/internal/ui/theme"
	blocksview "myday/internal/ui/views/blocks"
	journalview "myday/internal/ui/views/journal"
	statsview "myday/internal/ui/views/stats"
	timerview "myday/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Start(ctx context.Context, activityID string) (sessiondto.SessionOutput, error)
	Pause(ctx context.Context, destinationBlockID string) (sessiondto.PauseOutput, error)
	Resume(ctx context.Context) (sessiondto.ResumeOutput, error)
	Switch(ctx context.Context, toActivityID, pauseDestinationID string) (sessiondto.SwitchOutput, error)
	Finish(ctx context.Context) (sessiondto.FinishOutput, error)
	Reset(ctx context.Context, activityID string) error
	Delete(ctx context.Context, activityID string) (sessiondto.RedistributeOutput, error)
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
	Stats(ctx context.Context) (sessiondto.StatsOutput, error)
	Export(ctx context.Context) (string, error)
}

type planPort interface {
	GetPlan(ctx context.Context) (plandto.PlanOutput, error)
	Status(ctx context.Context) ([]plandto.BlockStatusOutput, error)
}

type journalPort interface {
	Log(ctx context.Context) ([]journaldto.EntryOutput, error)
}

type notifyPort interface {
	Test(ctx context.Context, title, body string) error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabBlocks
	tabJournal
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "Blocks", "Journal", "Stats",
}

// ─── async messages ───────────────────────────────────────────────────────────

// displayTickMsg drives the 1-second readout. The sequence number makes tick
// restarts idempotent: flipping the clock direction bumps the sequence and a
// beat from the old loop is dropped instead of doubling the cadence.
type displayTickMsg struct{ seq int }

// coarseTickMsg is the only completion detector. Once a minute it checks
// whether the running session has exhausted its budget.
type coarseTickMsg struct{}

type statusLoadedMsg struct {
	status sessiondto.StatusOutput
	err    error
}

type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Switch  key.Binding
	Delete  key.Binding
	Space   key.Binding
	Finish  key.Binding
	Flip    key.Binding
	Export  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start selected")),
		Switch:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "switch to selected")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete selected")),
		Space:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Flip:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "flip clock")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export report")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Switch, k.Delete},
		{k.Space, k.Finish, k.Flip, k.Export},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the two timer
// loops, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering to sub-views.
type Model struct {
	session sessionPort
	notify  notifyPort

	timerView   timerview.Model
	blocksView  blocksview.Model
	journalView journalview.Model
	statsView   statsview.Model

	activeTab  tabID
	keys       keyMap
	help       help.Model
	showHelp   bool
	palette    components.Palette
	current    sessiondto.StatusOutput
	displaySeq int
	status     string
	width      int
	height     int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(session sessionPort, plan planPort, journal journalPort, notify notifyPort) Model {
	return Model{
		session:     session,
		notify:      notify,
		timerView:   timerview.New(),
		blocksView:  blocksview.New(plan),
		journalView: journalview.New(journal),
		statsView:   statsview.New(statsPortBridge{p: session}),
		activeTab:   tabTimer,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.blocksView.Init(),
		m.journalView.Init(),
		m.statsView.Init(),
		m.loadStatusCmd(),
		m.displayTickCmd(m.displaySeq),
		m.coarseTickCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case displayTickMsg:
		if msg.seq != m.displaySeq {
			return m, nil
		}
		m.refreshStatus()
		return m, m.displayTickCmd(m.displaySeq)

	case coarseTickMsg:
		m.refreshStatus()
		if m.budgetExhausted() {
			cmds = append(cmds, m.finishCmd())
		}
		cmds = append(cmds, m.coarseTickCmd())
		return m, tea.Batch(cmds...)

	case statusLoadedMsg:
		if msg.err != nil {
			m.status = "status: " + msg.err.Error()
		} else {
			m.current = msg.status
			m.timerView.SetStatus(msg.status)
			if msg.status.Current != nil {
				m.status = "session recovered: " + msg.status.Current.Name
			}
		}

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		m.refreshStatus()
		cmds = append(cmds, m.refreshViews()...)
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabBlocks {
				if id, ok := m.blocksView.SelectedActivityID(); ok {
					cmds = append(cmds, m.startCmd(id))
				}
			}
		case "w":
			if m.activeTab == tabBlocks {
				if id, ok := m.blocksView.SelectedActivityID(); ok {
					cmds = append(cmds, m.switchCmd(id, ""))
				}
			}
		case "x":
			if m.activeTab == tabBlocks {
				if id, ok := m.blocksView.SelectedActivityID(); ok {
					cmds = append(cmds, m.deleteCmd(id))
				}
			}
		case " ":
			cmds = append(cmds, m.togglePauseCmd())
		case "f":
			if m.current.Current != nil {
				cmds = append(cmds, m.finishCmd())
			}
		case "d":
			if m.activeTab == tabTimer {
				m.timerView.Toggle()
				m.displaySeq++
				cmds = append(cmds, m.displayTickCmd(m.displaySeq))
			}
		case "e":
			if m.activeTab == tabStats {
				cmds = append(cmds, m.exportCmd())
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabBlocks:
		m.blocksView, tabCmd = m.blocksView.Update(msg)
	case tabJournal:
		m.journalView, tabCmd = m.journalView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabBlocks:
		return m.blocksView.View()
	case tabJournal:
		return m.journalView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "myday  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.current.Current != nil {
		marker := "● "
		if m.current.Current.State == "paused" {
			marker = "◌ "
		}
		left = theme.Hot.Render(marker+m.current.Current.Name) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "start":
		if len(parts) < 2 {
			m.status = "usage: start <activity>"
			return m, nil
		}
		return m, m.startCmd(parts[1])

	case "pause":
		block := ""
		if len(parts) >= 2 {
			block = parts[1]
		}
		return m, m.pauseCmd(block)

	case "resume":
		return m, m.resumeCmd()

	case "switch":
		if len(parts) < 2 {
			m.status = "usage: switch <activity> [block]"
			return m, nil
		}
		block := ""
		if len(parts) >= 3 {
			block = parts[2]
		}
		return m, m.switchCmd(parts[1], block)

	case "finish":
		return m, m.finishCmd()

	case "reset":
		if len(parts) < 2 {
			m.status = "usage: reset <activity>"
			return m, nil
		}
		return m, m.resetCmd(parts[1])

	case "delete":
		if len(parts) < 2 {
			m.status = "usage: delete <activity>"
			return m, nil
		}
		return m, m.deleteCmd(parts[1])

	case "export":
		return m, m.exportCmd()

	case "notify:test":
		title := "myday"
		if len(parts) >= 2 {
			title = strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		}
		return m, m.notifyTestCmd(title)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	if m.activeTab == tabBlocks {
		return m.blocksView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.blocksView, _ = m.blocksView.Update(sz)
	m.journalView, _ = m.journalView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

// refreshStatus pulls the live session readout. The call is in-memory, so
// doing it on the update path keeps every beat consistent.
func (m *Model) refreshStatus() {
	status, err := m.session.Status(context.Background())
	if err != nil {
		m.status = "status: " + err.Error()
		return
	}
	m.current = status
	m.timerView.SetStatus(status)
}

func (m Model) budgetExhausted() bool {
	if m.current.Current == nil || m.current.Current.State != "active" {
		return false
	}
	return m.current.Remaining.IsZero()
}

func (m *Model) refreshViews() []tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.blocksView, cmd = m.blocksView.Update(blocksview.RefreshMsg{})
	cmds = append(cmds, cmd)
	m.journalView, cmd = m.journalView.Update(journalview.RefreshMsg{})
	cmds = append(cmds, cmd)
	m.statsView, cmd = m.statsView.Update(statsview.RefreshMsg{})
	cmds = append(cmds, cmd)
	return cmds
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) displayTickCmd(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return displayTickMsg{seq: seq}
	})
}

func (m Model) coarseTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return coarseTickMsg{}
	})
}

func (m Model) loadStatusCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.session.Status(context.Background())
		return statusLoadedMsg{status: status, err: err}
	}
}

func (m Model) startCmd(activityID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), activityID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "started: " + out.Name}
	}
}

func (m Model) togglePauseCmd() tea.Cmd {
	paused := m.current.Current != nil && m.current.Current.State == "paused"
	if paused {
		return m.resumeCmd()
	}
	return m.pauseCmd("")
}

func (m Model) pauseCmd(destinationBlockID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Pause(context.Background(), destinationBlockID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		target := out.TargetBlockName
		if target == "" {
			target = "nowhere"
		}
		return actionDoneMsg{status: fmt.Sprintf("paused, crediting %s", target)}
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Resume(context.Background())
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "resumed: " + out.Session.Name}
	}
}

func (m Model) switchCmd(toActivityID, pauseDestinationID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Switch(context.Background(), toActivityID, pauseDestinationID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("switched from %s to %s", out.FromName, out.Session.Name)}
	}
}

func (m Model) finishCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Finish(context.Background())
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "finished: " + out.Session.Name}
	}
}

func (m Model) resetCmd(activityID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Reset(context.Background(), activityID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "reset: " + activityID}
	}
}

func (m Model) deleteCmd(activityID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Delete(context.Background(), activityID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if len(out.Grants) == 0 {
			return actionDoneMsg{status: fmt.Sprintf("deleted %s, %dm dropped", activityID, out.DeletedMin)}
		}
		return actionDoneMsg{status: fmt.Sprintf("deleted %s, %dm redistributed to %d siblings", activityID, out.DeletedMin, len(out.Grants))}
	}
}

func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := m.session.Export(context.Background())
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "report written: " + path}
	}
}

func (m Model) notifyTestCmd(title string) tea.Cmd {
	return func() tea.Msg {
		if m.notify == nil {
			return actionDoneMsg{err: fmt.Errorf("notify adapter not configured")}
		}
		if err := m.notify.Test(context.Background(), title, "test notification"); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "notification sent"}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type statsPortBridge struct{ p sessionPort }

func (b statsPortBridge) Stats(ctx context.Context) (sessiondto.StatsOutput, error) {
	return b.p.Stats(ctx)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
