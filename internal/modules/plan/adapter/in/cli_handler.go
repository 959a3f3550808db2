package in

import (
	"context"

	"myday/internal/modules/plan/dto"
	planin "myday/internal/modules/plan/port/in"
)

type CLIHandler struct {
	usecase planin.Usecase
}

func NewCLIHandler(usecase planin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) InitPlan(ctx context.Context) (dto.PlanOutput, error) {
	return h.usecase.InitPlan(ctx)
}

func (h CLIHandler) GetPlan(ctx context.Context) (dto.PlanOutput, error) {
	return h.usecase.GetPlan(ctx)
}

func (h CLIHandler) Status(ctx context.Context) ([]dto.BlockStatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) AddActivity(ctx context.Context, input dto.AddActivityInput) (dto.ActivityOutput, error) {
	return h.usecase.AddActivity(ctx, input)
}
