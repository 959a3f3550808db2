package out

import (
	"context"

	"myday/internal/modules/plan/domain"
)

type PlanStore interface {
	Load(ctx context.Context) (domain.Plan, error)
	Save(ctx context.Context, plan domain.Plan) error
}
