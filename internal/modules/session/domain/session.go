package domain

import "time"

const SchemaVersion = 1

type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
	StatePaused State = "paused"
)

// BlockRef snapshots the block a pause will be credited to. The name is
// captured by value so history stays correct if the block is later renamed
// or removed.
type BlockRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PauseRecord is one finalized pause interval. TargetBlock holds the name
// snapshot taken when the pause ended.
type PauseRecord struct {
	DurationMin int       `json:"duration_minutes"`
	At          time.Time `json:"at"`
	TargetBlock string    `json:"target_block,omitempty"`
}

// Session is the mutable runtime state for one activity. Minutes are whole;
// AccumulatedMin carries the minute total of all closed active intervals,
// sub-minute precision lives only in the live queries.
type Session struct {
	ActivityID     string        `json:"activity_id"`
	Name           string        `json:"name"`
	BlockID        string        `json:"block_id,omitempty"`
	DurationMin    int           `json:"duration_minutes"`
	RemainingMin   int           `json:"remaining_minutes"`
	TotalUsedMin   int           `json:"total_used_minutes"`
	TotalPauseMin  int           `json:"total_pause_minutes"`
	AccumulatedMin int           `json:"accumulated_minutes"`
	Active         bool          `json:"active"`
	LastStart      *time.Time    `json:"last_start,omitempty"`
	PauseStart     *time.Time    `json:"pause_start,omitempty"`
	PauseTarget    *BlockRef     `json:"pause_target,omitempty"`
	PauseHistory   []PauseRecord `json:"pause_history,omitempty"`
}

func (s Session) State() State {
	switch {
	case s.Active:
		return StateActive
	case s.PauseStart != nil:
		return StatePaused
	default:
		return StateIdle
	}
}

// Consistent reports the core invariant: a session is never active with an
// open pause at the same time.
func (s Session) Consistent() bool {
	return !(s.Active && s.PauseStart != nil)
}

// Snapshot is the opaque blob handed to the persistence collaborator.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	SavedAt       time.Time `json:"saved_at"`
	CurrentID     string    `json:"current_id,omitempty"`
	Sessions      []Session `json:"sessions"`
}
