package domain

import "time"

// DailyReport is the exportable end-of-day summary. Event counts are scoped
// to the calendar day; the active/pause totals are lifetime sums across all
// sessions, matching what the stats screen shows.
type DailyReport struct {
	Date           time.Time
	Counts         Counts
	TotalActiveMin int
	TotalPauseMin  int
	Blocks         []BlockStatus
	Entries        []Entry
}
