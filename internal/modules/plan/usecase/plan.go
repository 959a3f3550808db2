package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myday/internal/modules/plan/domain"
	"myday/internal/modules/plan/dto"
	planin "myday/internal/modules/plan/port/in"
	planout "myday/internal/modules/plan/port/out"
	"myday/internal/modules/plan/service"
	apperrors "myday/internal/platform/errors"
	"myday/internal/platform/slug"
)

type Interactor struct {
	svc   *service.LedgerService
	store planout.PlanStore
}

func NewInteractor(svc *service.LedgerService, store planout.PlanStore) planin.Usecase {
	return &Interactor{svc: svc, store: store}
}

func (i *Interactor) Load(ctx context.Context) error {
	plan, err := i.store.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidPlan) {
			plan = DefaultPlan()
		} else {
			return err
		}
	}
	return i.apply(ctx, plan)
}

func (i *Interactor) InitPlan(ctx context.Context) (dto.PlanOutput, error) {
	plan := DefaultPlan()
	if err := i.store.Save(ctx, plan); err != nil {
		return dto.PlanOutput{}, err
	}
	if err := i.apply(ctx, plan); err != nil {
		return dto.PlanOutput{}, err
	}
	return i.GetPlan(ctx)
}

func (i *Interactor) apply(ctx context.Context, plan domain.Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	if err := i.svc.SetBlocks(ctx, plan.Blocks); err != nil {
		return err
	}
	return i.svc.SetActivities(ctx, plan.Activities)
}

func (i *Interactor) GetPlan(ctx context.Context) (dto.PlanOutput, error) {
	plan := i.svc.Plan(ctx)
	out := dto.PlanOutput{}
	for _, b := range plan.Blocks {
		out.Blocks = append(out.Blocks, blockOutput(b))
	}
	for _, a := range plan.Activities {
		out.Activities = append(out.Activities, activityOutput(a))
	}
	return out, nil
}

func (i *Interactor) Block(ctx context.Context, id string) (dto.BlockOutput, error) {
	b, err := i.svc.Block(ctx, id)
	if err != nil {
		return dto.BlockOutput{}, err
	}
	return blockOutput(b), nil
}

func (i *Interactor) Activity(ctx context.Context, id string) (dto.ActivityOutput, error) {
	a, err := i.svc.Activity(ctx, id)
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	return activityOutput(a), nil
}

func (i *Interactor) ActivitiesOf(ctx context.Context, blockID string) ([]dto.ActivityOutput, error) {
	activities := i.svc.ActivitiesOf(ctx, blockID)
	out := make([]dto.ActivityOutput, 0, len(activities))
	for _, a := range activities {
		out = append(out, activityOutput(a))
	}
	return out, nil
}

func (i *Interactor) DefaultPauseTarget(ctx context.Context) (dto.BlockOutput, bool) {
	b, ok := i.svc.DefaultPauseTarget(ctx)
	if !ok {
		return dto.BlockOutput{}, false
	}
	return blockOutput(b), true
}

func (i *Interactor) Recompute(ctx context.Context, usages []dto.UsageInput) error {
	converted := make([]domain.Usage, 0, len(usages))
	for _, u := range usages {
		credits := make([]domain.PauseCredit, 0, len(u.PauseCredits))
		for _, c := range u.PauseCredits {
			credits = append(credits, domain.PauseCredit{TargetName: c.TargetName, Minutes: c.Minutes})
		}
		converted = append(converted, domain.Usage{
			ActivityID:   u.ActivityID,
			BlockID:      u.BlockID,
			UsedMin:      u.UsedMin,
			PauseCredits: credits,
		})
	}
	i.svc.Recompute(ctx, converted)
	return nil
}

func (i *Interactor) Status(ctx context.Context) ([]dto.BlockStatusOutput, error) {
	statuses := i.svc.Status(ctx)
	out := make([]dto.BlockStatusOutput, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, dto.BlockStatusOutput{
			ID:           s.ID,
			Name:         s.Name,
			RemainingMin: s.RemainingMin,
			ProgressPct:  s.ProgressPct,
		})
	}
	return out, nil
}

// AddActivity derives the id from the name; a taken slug gets a numeric
// suffix so repeated names stay addressable.
func (i *Interactor) AddActivity(ctx context.Context, input dto.AddActivityInput) (dto.ActivityOutput, error) {
	if strings.TrimSpace(input.Name) == "" || input.DurationMin <= 0 {
		return dto.ActivityOutput{}, apperrors.ErrInvalidInput
	}
	if input.BlockID != "" {
		if _, err := i.svc.Block(ctx, input.BlockID); err != nil {
			return dto.ActivityOutput{}, err
		}
	}
	base := slug.Make(input.Name)
	id := base
	for n := 2; ; n++ {
		if _, err := i.svc.Activity(ctx, id); err != nil {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	activity := domain.Activity{
		ID:          id,
		Name:        input.Name,
		Icon:        input.Icon,
		Color:       input.Color,
		DurationMin: input.DurationMin,
		Temporary:   input.Temporary,
		BlockID:     input.BlockID,
	}
	if err := i.svc.AddActivity(ctx, activity); err != nil {
		return dto.ActivityOutput{}, err
	}
	if err := i.store.Save(ctx, i.svc.Plan(ctx)); err != nil {
		return dto.ActivityOutput{}, err
	}
	return activityOutput(activity), nil
}

func (i *Interactor) GrowActivity(ctx context.Context, id string, addMin int) error {
	if err := i.svc.GrowActivity(ctx, id, addMin); err != nil {
		return err
	}
	return i.store.Save(ctx, i.svc.Plan(ctx))
}

func (i *Interactor) RemoveActivity(ctx context.Context, id string) (dto.ActivityOutput, error) {
	removed, err := i.svc.RemoveActivity(ctx, id)
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	if err := i.store.Save(ctx, i.svc.Plan(ctx)); err != nil {
		return dto.ActivityOutput{}, err
	}
	return activityOutput(removed), nil
}

func blockOutput(b domain.Block) dto.BlockOutput {
	return dto.BlockOutput{
		ID:          b.ID,
		Name:        b.Name,
		Kind:        string(b.Kind),
		DurationMin: b.DurationMin,
		ConsumedMin: b.ConsumedMin,
	}
}

func activityOutput(a domain.Activity) dto.ActivityOutput {
	return dto.ActivityOutput{
		ID:          a.ID,
		Name:        a.Name,
		Icon:        a.Icon,
		Color:       a.Color,
		DurationMin: a.DurationMin,
		Temporary:   a.Temporary,
		BlockID:     a.BlockID,
	}
}

// DefaultPlan seeds a first run with the stock weekday template: three
// eight-hour blocks with starter activities under work and personal.
func DefaultPlan() domain.Plan {
	return domain.Plan{
		Blocks: []domain.Block{
			{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480},
			{ID: "rest", Name: "Rest", Kind: domain.KindRest, DurationMin: 480},
			{ID: "personal", Name: "Personal", Kind: domain.KindOther, DurationMin: 480},
		},
		Activities: []domain.Activity{
			{ID: "deep-work", Name: "Deep Work", Icon: "🎯", Color: "#1976D2", DurationMin: 240, BlockID: "work"},
			{ID: "meetings", Name: "Meetings", Icon: "👥", Color: "#7B1FA2", DurationMin: 120, BlockID: "work"},
			{ID: "email", Name: "Email", Icon: "📧", Color: "#D32F2F", DurationMin: 60, BlockID: "work"},
			{ID: "study", Name: "Study", Icon: "📚", Color: "#388E3C", DurationMin: 120, BlockID: "personal"},
			{ID: "exercise", Name: "Exercise", Icon: "🏃", Color: "#F57C00", DurationMin: 60, BlockID: "personal"},
		},
	}
}
