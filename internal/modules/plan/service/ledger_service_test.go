package service_test

import (
	"context"
	"errors"
	"testing"

	"myday/internal/modules/plan/domain"
	"myday/internal/modules/plan/service"
	apperrors "myday/internal/platform/errors"
)

func newLedger(t *testing.T, blocks []domain.Block, activities []domain.Activity) *service.LedgerService {
	t.Helper()
	svc := service.NewLedgerService()
	if err := svc.SetBlocks(context.Background(), blocks); err != nil {
		t.Fatalf("set blocks: %v", err)
	}
	if err := svc.SetActivities(context.Background(), activities); err != nil {
		t.Fatalf("set activities: %v", err)
	}
	return svc
}

func TestDefaultPauseTargetPrefersRestLikeBlocks(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480},
		{ID: "rest", Name: "Rest", Kind: domain.KindRest, DurationMin: 120},
	}, nil)

	target, ok := svc.DefaultPauseTarget(context.Background())
	if !ok || target.ID != "rest" {
		t.Fatalf("expected the rest block, got %+v ok=%v", target, ok)
	}
}

func TestDefaultPauseTargetFallsBackToNameHeuristic(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "a", Name: "Morning", DurationMin: 240},
		{ID: "b", Name: "Lunch Break", DurationMin: 60},
	}, nil)

	target, ok := svc.DefaultPauseTarget(context.Background())
	if !ok || target.ID != "b" {
		t.Fatalf("a block named Break counts as rest-like, got %+v ok=%v", target, ok)
	}
}

func TestDefaultPauseTargetFallsBackToSecondBlock(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "a", Name: "Morning", Kind: domain.KindWork, DurationMin: 240},
		{ID: "b", Name: "Afternoon", Kind: domain.KindWork, DurationMin: 240},
	}, nil)

	target, ok := svc.DefaultPauseTarget(context.Background())
	if !ok || target.ID != "b" {
		t.Fatalf("without a rest block the second block is the target, got %+v ok=%v", target, ok)
	}

	single := newLedger(t, []domain.Block{
		{ID: "only", Name: "Only", Kind: domain.KindWork, DurationMin: 240},
	}, nil)
	if _, ok := single.DefaultPauseTarget(context.Background()); ok {
		t.Fatalf("a single non-rest block leaves pause time unattributed")
	}
}

func TestSetBlocksZeroesConsumedTime(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480, ConsumedMin: 300},
	}, nil)

	block, err := svc.Block(context.Background(), "work")
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if block.ConsumedMin != 0 {
		t.Fatalf("consumed time is derived, never loaded, got %d", block.ConsumedMin)
	}
}

func TestRecomputeSumsUsageAndCreditsPausesByName(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480},
		{ID: "rest", Name: "Rest", Kind: domain.KindRest, DurationMin: 120},
	}, nil)

	svc.Recompute(context.Background(), []domain.Usage{
		{ActivityID: "a", BlockID: "work", UsedMin: 90, PauseCredits: []domain.PauseCredit{
			{TargetName: "Rest", Minutes: 15},
			{TargetName: "Gone", Minutes: 99},
		}},
		{ActivityID: "b", BlockID: "work", UsedMin: 30},
	})

	work, _ := svc.Block(context.Background(), "work")
	if work.ConsumedMin != 120 {
		t.Fatalf("work must sum its activities, got %d", work.ConsumedMin)
	}
	rest, _ := svc.Block(context.Background(), "rest")
	if rest.ConsumedMin != 15 {
		t.Fatalf("rest must collect only credits naming it, got %d", rest.ConsumedMin)
	}
}

func TestRecomputeReplacesPriorTotalsInsteadOfAccumulating(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480},
	}, nil)

	usage := []domain.Usage{{ActivityID: "a", BlockID: "work", UsedMin: 60}}
	svc.Recompute(context.Background(), usage)
	svc.Recompute(context.Background(), usage)

	work, _ := svc.Block(context.Background(), "work")
	if work.ConsumedMin != 60 {
		t.Fatalf("recompute rebuilds from scratch, got %d", work.ConsumedMin)
	}
}

func TestStatusLeavesOverrunUnclamped(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 60},
		{ID: "zero", Name: "Zero", Kind: domain.KindOther, DurationMin: 0},
	}, nil)
	svc.Recompute(context.Background(), []domain.Usage{
		{ActivityID: "a", BlockID: "work", UsedMin: 90},
	})

	statuses := svc.Status(context.Background())
	if statuses[0].RemainingMin != -30 {
		t.Fatalf("remaining may go negative, got %d", statuses[0].RemainingMin)
	}
	if statuses[0].ProgressPct != 150 {
		t.Fatalf("progress is unclamped, got %v", statuses[0].ProgressPct)
	}
	if statuses[1].ProgressPct != 0 {
		t.Fatalf("zero-duration block reads 0%%, got %v", statuses[1].ProgressPct)
	}
}

func TestGrowAndRemoveActivity(t *testing.T) {
	t.Parallel()
	svc := newLedger(t, []domain.Block{
		{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480},
	}, []domain.Activity{
		{ID: "a", Name: "A", DurationMin: 60, BlockID: "work"},
		{ID: "b", Name: "B", DurationMin: 30, BlockID: "work"},
	})

	if err := svc.GrowActivity(context.Background(), "a", 20); err != nil {
		t.Fatalf("grow: %v", err)
	}
	a, err := svc.Activity(context.Background(), "a")
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if a.DurationMin != 80 {
		t.Fatalf("expected 80 minutes after growth, got %d", a.DurationMin)
	}
	if err := svc.GrowActivity(context.Background(), "a", -5); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("negative growth: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.GrowActivity(context.Background(), "ghost", 5); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown activity: expected ErrNotFound, got %v", err)
	}

	removed, err := svc.RemoveActivity(context.Background(), "b")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.DurationMin != 30 {
		t.Fatalf("remove must return the definition, got %+v", removed)
	}
	remaining := svc.ActivitiesOf(context.Background(), "work")
	if len(remaining) != 1 || remaining[0].ID != "a" {
		t.Fatalf("expected only activity a to remain, got %+v", remaining)
	}
	if _, err := svc.RemoveActivity(context.Background(), "b"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("double remove: expected ErrNotFound, got %v", err)
	}
}

func TestSetActivitiesRejectsDuplicatesAndKeepsOrder(t *testing.T) {
	t.Parallel()
	svc := service.NewLedgerService()
	if err := svc.SetBlocks(context.Background(), []domain.Block{
		{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480},
	}); err != nil {
		t.Fatalf("set blocks: %v", err)
	}

	err := svc.SetActivities(context.Background(), []domain.Activity{
		{ID: "a", Name: "A", DurationMin: 60, BlockID: "work"},
		{ID: "a", Name: "A again", DurationMin: 30, BlockID: "work"},
	})
	if !errors.Is(err, apperrors.ErrInvalidPlan) {
		t.Fatalf("duplicate id: expected ErrInvalidPlan, got %v", err)
	}

	if err := svc.SetActivities(context.Background(), []domain.Activity{
		{ID: "c", Name: "C", DurationMin: 60, BlockID: "work"},
		{ID: "a", Name: "A", DurationMin: 30, BlockID: "work"},
	}); err != nil {
		t.Fatalf("set activities: %v", err)
	}
	got := svc.Activities(context.Background())
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("definition order must be preserved, got %+v", got)
	}
}
