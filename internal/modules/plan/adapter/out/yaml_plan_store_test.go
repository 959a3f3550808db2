package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"myday/internal/modules/plan/adapter/out"
	"myday/internal/modules/plan/domain"
	apperrors "myday/internal/platform/errors"
)

func TestYAMLPlanStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	store := out.NewYAMLPlanStore(path)
	ctx := context.Background()

	plan := domain.Plan{
		Blocks: []domain.Block{
			{ID: "work", Name: "Work", Kind: domain.KindWork, DurationMin: 480},
			{ID: "rest", Name: "Rest", Kind: domain.KindRest, DurationMin: 120},
		},
		Activities: []domain.Activity{
			{ID: "deep-work", Name: "Deep Work", Icon: "🎯", Color: "#1976D2", DurationMin: 240, BlockID: "work"},
			{ID: "errands", Name: "Errands", DurationMin: 30, Temporary: true, BlockID: "work"},
		},
	}
	if err := store.Save(ctx, plan); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Blocks) != 2 || loaded.Blocks[1].Kind != domain.KindRest {
		t.Fatalf("blocks did not survive the round trip: %+v", loaded.Blocks)
	}
	if len(loaded.Activities) != 2 || loaded.Activities[0].Icon != "🎯" || !loaded.Activities[1].Temporary {
		t.Fatalf("activities did not survive the round trip: %+v", loaded.Activities)
	}
}

func TestYAMLPlanStoreMissingFile(t *testing.T) {
	t.Parallel()
	store := out.NewYAMLPlanStore(filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestYAMLPlanStoreMalformedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("blocks: [not: {closed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := out.NewYAMLPlanStore(path)

	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestYAMLPlanStoreRejectsInvalidPlan(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	payload := "blocks:\n  - id: work\n    name: Work\nactivities:\n  - id: a\n    name: A\n    block: ghost\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := out.NewYAMLPlanStore(path)

	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrInvalidPlan) {
		t.Fatalf("dangling block reference must be ErrInvalidPlan, got %v", err)
	}
}
