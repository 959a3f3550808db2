package in

import (
	"context"

	"myday/internal/modules/plan/dto"
)

type Usecase interface {
	// Load pulls the plan from the store, falling back to the built-in
	// default day when the file is missing or malformed.
	Load(ctx context.Context) error
	InitPlan(ctx context.Context) (dto.PlanOutput, error)
	GetPlan(ctx context.Context) (dto.PlanOutput, error)
	Block(ctx context.Context, id string) (dto.BlockOutput, error)
	Activity(ctx context.Context, id string) (dto.ActivityOutput, error)
	ActivitiesOf(ctx context.Context, blockID string) ([]dto.ActivityOutput, error)
	DefaultPauseTarget(ctx context.Context) (dto.BlockOutput, bool)
	Recompute(ctx context.Context, usages []dto.UsageInput) error
	Status(ctx context.Context) ([]dto.BlockStatusOutput, error)
	AddActivity(ctx context.Context, input dto.AddActivityInput) (dto.ActivityOutput, error)
	GrowActivity(ctx context.Context, id string, addMin int) error
	RemoveActivity(ctx context.Context, id string) (dto.ActivityOutput, error)
}
