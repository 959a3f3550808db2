package timer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "myday/internal/modules/session/dto"
	"myday/internal/platform/timeutil"
	"myday/internal/ui/theme"
)

// Direction selects what the big clock counts. The app restarts its display
// tick when this flips, so a stale tick from the other direction is dropped.
type Direction int

const (
	CountDown Direction = iota
	CountUp
)

// Model renders the current session. It holds no port: the app owns the
// display tick and pushes fresh status into SetStatus on every beat.
type Model struct {
	status    sessiondto.StatusOutput
	direction Direction
	width     int
	height    int
}

func New() Model {
	return Model{direction: CountDown}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}
	return m, nil
}

// SetStatus replaces the rendered snapshot.
func (m *Model) SetStatus(status sessiondto.StatusOutput) {
	m.status = status
}

// Toggle flips the clock between counting down and counting up.
func (m *Model) Toggle() {
	if m.direction == CountDown {
		m.direction = CountUp
	} else {
		m.direction = CountDown
	}
}

func (m Model) Direction() Direction {
	return m.direction
}

func (m Model) View() string {
	if m.status.Current == nil {
		empty := theme.Muted.Render("No session running.\n\nPick an activity on the Blocks tab and press s,\nor use the palette: start <activity>")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}
	s := m.status.Current

	var clock string
	var label string
	if m.direction == CountDown {
		display := timeutil.Display{Minutes: m.status.Remaining.Minutes, Seconds: m.status.Remaining.Seconds}
		clock = timeutil.FormatClock(display, true)
		label = "remaining"
	} else {
		display := timeutil.Display{Minutes: m.status.Elapsed.Minutes, Seconds: m.status.Elapsed.Seconds}
		clock = timeutil.FormatClock(display, true)
		label = "elapsed"
	}

	clockStyle := theme.Title
	if m.direction == CountDown && m.status.Remaining.Minutes == 0 && m.status.Remaining.Seconds == 0 {
		clockStyle = theme.Over
	}

	progress := timeutil.Progress(float64(s.TotalUsedMin), float64(s.DurationMin))
	progressStyle := theme.Good
	if progress > 100 {
		progressStyle = theme.Over
	}

	var sb strings.Builder
	sb.WriteString(theme.Hot.Render(s.Name) + "  " + theme.Muted.Render(s.State) + "\n\n")
	sb.WriteString(clockStyle.Render(bigClock(clock)) + "\n")
	sb.WriteString(theme.Muted.Render(label) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %s / %s  %s\n",
		theme.Muted.Render("budget:"),
		timeutil.FormatMinutes(s.TotalUsedMin),
		timeutil.FormatMinutes(s.DurationMin),
		progressStyle.Render(fmt.Sprintf("%.0f%%", progress)),
	))
	if s.State == "paused" {
		pause := timeutil.Display{Minutes: m.status.PauseTime.Minutes, Seconds: m.status.PauseTime.Seconds}
		target := s.PauseTargetName
		if target == "" {
			target = "nowhere"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s %s\n",
			theme.Muted.Render("paused:"),
			timeutil.FormatClock(pause, true),
			theme.Muted.Render("crediting"),
			target,
		))
	}
	if s.TotalPauseMin > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("total paused:"), timeutil.FormatMinutes(s.TotalPauseMin)))
	}
	sb.WriteString("\n" + theme.Muted.Render("space: pause/resume  f: finish  d: flip clock"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

// bigClock pads the clock string into a wide banner. A full glyph font is
// more than this screen needs.
func bigClock(clock string) string {
	return "  " + strings.Join(strings.Split(clock, ""), " ") + "  "
}
