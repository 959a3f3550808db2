package timeutil

import (
	"fmt"
	"time"
)

// Display is a minute/second pair for timer readouts.
type Display struct {
	Minutes int
	Seconds int
}

func DisplayFromSeconds(totalSeconds int) Display {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return Display{Minutes: totalSeconds / 60, Seconds: totalSeconds % 60}
}

func (d Display) TotalSeconds() int {
	return d.Minutes*60 + d.Seconds
}

func (d Display) IsZero() bool {
	return d.Minutes <= 0 && d.Seconds <= 0
}

// WholeSeconds floors a delta to whole seconds. Sub-second remainders are
// discarded, matching the ledger's lossy truncation policy.
func WholeSeconds(delta time.Duration) int {
	if delta < 0 {
		return 0
	}
	return int(delta / time.Second)
}

// WholeMinutes floors a delta to whole minutes.
func WholeMinutes(delta time.Duration) int {
	if delta < 0 {
		return 0
	}
	return int(delta / time.Minute)
}

// FormatClock renders "MM:SS"; with showSeconds false the seconds field is
// frozen at 00 so the layout stays stable.
func FormatClock(d Display, showSeconds bool) string {
	if showSeconds {
		return fmt.Sprintf("%02d:%02d", d.Minutes, d.Seconds)
	}
	return fmt.Sprintf("%02d:00", d.Minutes)
}

// FormatMinutes renders a minute count as "2h 15m" / "45m".
func FormatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		if m > 0 {
			return fmt.Sprintf("%dh %dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// Progress returns current/total as a percentage, 0 when total is zero.
func Progress(current, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return current / total * 100
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
