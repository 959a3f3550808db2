package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"myday/internal/modules/session/adapter/out"
	"myday/internal/modules/session/domain"
	apperrors "myday/internal/platform/errors"
)

func TestFileStateStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "day", "state.json")
	store := out.NewFileStateStore(path)
	ctx := context.Background()

	pausedAt := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)
	snapshot := domain.Snapshot{
		SchemaVersion: domain.SchemaVersion,
		SavedAt:       pausedAt,
		CurrentID:     "deep-work",
		Sessions: []domain.Session{
			{
				ActivityID:    "deep-work",
				Name:          "Deep Work",
				BlockID:       "work",
				DurationMin:   240,
				RemainingMin:  215,
				TotalUsedMin:  25,
				TotalPauseMin: 5,
				PauseStart:    &pausedAt,
				PauseTarget:   &domain.BlockRef{ID: "rest", Name: "Rest"},
				PauseHistory: []domain.PauseRecord{
					{DurationMin: 5, At: pausedAt, TargetBlock: "Rest"},
				},
			},
		},
	}
	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentID != "deep-work" || len(loaded.Sessions) != 1 {
		t.Fatalf("snapshot did not survive the round trip: %+v", loaded)
	}
	got := loaded.Sessions[0]
	if got.PauseStart == nil || !got.PauseStart.Equal(pausedAt) {
		t.Fatalf("open pause must survive: %+v", got)
	}
	if got.PauseTarget == nil || got.PauseTarget.Name != "Rest" {
		t.Fatalf("pause target must survive: %+v", got.PauseTarget)
	}
	if len(got.PauseHistory) != 1 || got.PauseHistory[0].TargetBlock != "Rest" {
		t.Fatalf("pause history must survive: %+v", got.PauseHistory)
	}
}

func TestFileStateStoreMissingFile(t *testing.T) {
	t.Parallel()
	store := out.NewFileStateStore(filepath.Join(t.TempDir(), "absent.json"))

	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStateStoreCorruptPayload(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := out.NewFileStateStore(path)

	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestFileStateStoreRejectsInconsistentSessions(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	store := out.NewFileStateStore(path)
	ctx := context.Background()

	now := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)
	bad := domain.Snapshot{
		SchemaVersion: domain.SchemaVersion,
		Sessions: []domain.Session{
			{ActivityID: "a", Name: "A", Active: true, PauseStart: &now},
		},
	}
	if err := store.Save(ctx, bad); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("active with an open pause must be rejected, got %v", err)
	}
}
