package domain

import (
	"fmt"
	"time"
)

const SchemaVersion = 1

// Window is how long entries survive. Pruning runs on every append, so the
// log stays bounded without an external sweeper.
const Window = 24 * time.Hour

type Kind string

const (
	KindStart        Kind = "start"
	KindPause        Kind = "pause"
	KindPauseEnd     Kind = "pause_end"
	KindSwitch       Kind = "switch"
	KindComplete     Kind = "complete"
	KindBlockConsume Kind = "major_block_consume"
)

func (k Kind) Validate() error {
	switch k {
	case KindStart, KindPause, KindPauseEnd, KindSwitch, KindComplete, KindBlockConsume:
		return nil
	default:
		return fmt.Errorf("unsupported journal kind %q", string(k))
	}
}

// BlockStatus is the journal's own value copy of a ledger status line.
// Entries never hold live ledger references, so history stays immutable as
// the day progresses.
type BlockStatus struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	RemainingMin int     `json:"remaining_minutes"`
	ProgressPct  float64 `json:"progress_percent"`
}

// Entry is append-only. DurationMin's meaning depends on Kind: minutes
// worked for a pause, minutes paused for a pause_end, and so on.
type Entry struct {
	ID           string        `json:"id"`
	At           time.Time     `json:"at"`
	Kind         Kind          `json:"kind"`
	Description  string        `json:"description"`
	RemainingMin int           `json:"remaining_minutes"`
	DurationMin  int           `json:"duration_minutes"`
	Blocks       []BlockStatus `json:"blocks,omitempty"`
}

// Counts are the calendar-day event tallies for daily stats.
type Counts struct {
	Completed int
	Switches  int
	Pauses    int
	Total     int
}
