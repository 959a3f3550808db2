package dto

import "time"

type AppendInput struct {
	Kind         string
	Description  string
	RemainingMin int
	DurationMin  int
}

type BlockStatusOutput struct {
	ID           string
	Name         string
	RemainingMin int
	ProgressPct  float64
}

type EntryOutput struct {
	ID           string
	At           time.Time
	Kind         string
	Description  string
	RemainingMin int
	DurationMin  int
	Blocks       []BlockStatusOutput
}

type CountsOutput struct {
	Completed int
	Switches  int
	Pauses    int
	Total     int
}

type StatsInput struct {
	TotalActiveMin int
	TotalPauseMin  int
}
