package dto

type BlockOutput struct {
	ID          string
	Name        string
	Kind        string
	DurationMin int
	ConsumedMin int
}

type ActivityOutput struct {
	ID          string
	Name        string
	Icon        string
	Color       string
	DurationMin int
	Temporary   bool
	BlockID     string
}

type BlockStatusOutput struct {
	ID           string
	Name         string
	RemainingMin int
	ProgressPct  float64
}

type PlanOutput struct {
	Blocks     []BlockOutput
	Activities []ActivityOutput
}

type AddActivityInput struct {
	Name        string
	Icon        string
	Color       string
	DurationMin int
	Temporary   bool
	BlockID     string
}

type PauseCreditInput struct {
	TargetName string
	Minutes    int
}

type UsageInput struct {
	ActivityID   string
	BlockID      string
	UsedMin      int
	PauseCredits []PauseCreditInput
}
