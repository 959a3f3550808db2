package in

import (
	"context"

	"myday/internal/modules/journal/dto"
)

type Usecase interface {
	Append(ctx context.Context, input dto.AppendInput) (dto.EntryOutput, error)
	Entries(ctx context.Context) ([]dto.EntryOutput, error)
	TodayCounts(ctx context.Context) (dto.CountsOutput, error)
	History(ctx context.Context, limit int) ([]dto.EntryOutput, error)
	ExportDaily(ctx context.Context, totals dto.StatsInput) (string, error)
}
