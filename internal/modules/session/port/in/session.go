package in

import (
	"context"

	"myday/internal/modules/session/dto"
)

type Usecase interface {
	// Load restores the persisted day state; a missing or corrupt snapshot
	// starts a fresh day.
	Load(ctx context.Context) error
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Pause(ctx context.Context, input dto.PauseInput) (dto.PauseOutput, error)
	Resume(ctx context.Context) (dto.ResumeOutput, error)
	Switch(ctx context.Context, input dto.SwitchInput) (dto.SwitchOutput, error)
	Finish(ctx context.Context) (dto.FinishOutput, error)
	Reset(ctx context.Context, activityID string) error
	DeleteActivity(ctx context.Context, activityID string) (dto.RedistributeOutput, error)
	Redistribute(ctx context.Context, blockID string, deletedMin int) (dto.RedistributeOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	DailyStats(ctx context.Context) (dto.StatsOutput, error)
	ExportDaily(ctx context.Context) (string, error)
	Sessions(ctx context.Context) ([]dto.SessionOutput, error)
	Elapsed(ctx context.Context, activityID string) dto.DisplayOutput
	Remaining(ctx context.Context, activityID string) dto.DisplayOutput
	PauseTime(ctx context.Context, activityID string) dto.DisplayOutput
}
