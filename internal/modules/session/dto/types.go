package dto

type SessionOutput struct {
	ActivityID      string
	Name            string
	BlockID         string
	State           string
	DurationMin     int
	RemainingMin    int
	TotalUsedMin    int
	TotalPauseMin   int
	AccumulatedMin  int
	PauseTargetName string
}

type DisplayOutput struct {
	Minutes int
	Seconds int
}

func (d DisplayOutput) IsZero() bool {
	return d.Minutes <= 0 && d.Seconds <= 0
}

type StartInput struct {
	ActivityID string
}

type PauseInput struct {
	DestinationBlockID string
}

type PauseOutput struct {
	Session         SessionOutput
	ActiveMin       int
	TargetBlockID   string
	TargetBlockName string
}

type ResumeOutput struct {
	Session         SessionOutput
	PausedMin       int
	TargetBlockName string
}

type SwitchInput struct {
	ToActivityID       string
	PauseDestinationID string
}

type SwitchOutput struct {
	FromName string
	Paused   *PauseOutput
	Session  SessionOutput
}

type FinishOutput struct {
	Session SessionOutput
}

type Grant struct {
	ActivityID string
	Name       string
	AddedMin   int
}

type RedistributeOutput struct {
	BlockID    string
	DeletedMin int
	Grants     []Grant
}

type StatusOutput struct {
	Current   *SessionOutput
	PauseTime DisplayOutput
	Elapsed   DisplayOutput
	Remaining DisplayOutput
}

type StatsOutput struct {
	TotalActiveMin int
	TotalPauseMin  int
	Completed      int
	Switches       int
	Pauses         int
	TotalEvents    int
}
