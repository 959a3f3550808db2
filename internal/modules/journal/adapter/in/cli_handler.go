package in

import (
	"context"

	journaldto "myday/internal/modules/journal/dto"
	journalin "myday/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Log returns the rolling in-memory window, newest first.
func (h CLIHandler) Log(ctx context.Context) ([]journaldto.EntryOutput, error) {
	return h.usecase.Entries(ctx)
}

// History reaches past the rolling window into the database projection.
func (h CLIHandler) History(ctx context.Context, limit int) ([]journaldto.EntryOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) TodayCounts(ctx context.Context) (journaldto.CountsOutput, error) {
	return h.usecase.TodayCounts(ctx)
}
