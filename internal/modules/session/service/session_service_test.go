package service_test

import (
	"context"
	"testing"
	"time"

	"myday/internal/modules/session/domain"
	"myday/internal/modules/session/service"
	apperrors "myday/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

func at(h, m, s int) time.Time {
	return time.Date(2026, 8, 29, h, m, s, 0, time.UTC)
}

func seed() service.Seed {
	return service.Seed{ActivityID: "deep-work", Name: "Deep Work", BlockID: "work", DurationMin: 60}
}

func TestInitializeIsIdempotent(t *testing.T) {
	t.Parallel()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{at(10, 0, 0)}})

	first := svc.Initialize(context.Background(), seed())
	if first.RemainingMin != 60 || first.State() != domain.StateIdle {
		t.Fatalf("fresh session should be idle with full budget, got %+v", first)
	}

	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}
	again := svc.Initialize(context.Background(), seed())
	if again.State() != domain.StateActive {
		t.Fatalf("re-initialize must return the existing session untouched, got state %s", again.State())
	}
}

func TestPauseFloorsToWholeMinutesAndTruncatesSubMinute(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{
		at(10, 0, 0),
		time.Date(2026, 8, 29, 10, 25, 59, 500e6, time.UTC),
	}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}

	outcome, err := svc.Pause(context.Background(), "deep-work", &domain.BlockRef{ID: "rest", Name: "Rest"})
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if outcome.ActiveMin != 25 {
		t.Fatalf("25m59.5s must floor to 25 minutes, got %d", outcome.ActiveMin)
	}
	if outcome.Session.RemainingMin != 35 || outcome.Session.AccumulatedMin != 25 || outcome.Session.TotalUsedMin != 25 {
		t.Fatalf("unexpected totals after pause: %+v", outcome.Session)
	}
	if outcome.Session.State() != domain.StatePaused {
		t.Fatalf("expected paused state, got %s", outcome.Session.State())
	}
	if !outcome.Session.Consistent() {
		t.Fatalf("session may not be active with an open pause")
	}
}

func TestPauseClampsRemainingAtZero(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(10, 0, 0), at(12, 0, 0)}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}

	outcome, err := svc.Pause(context.Background(), "deep-work", nil)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if outcome.Session.RemainingMin != 0 {
		t.Fatalf("remaining must clamp at zero, got %d", outcome.Session.RemainingMin)
	}
	if outcome.Session.TotalUsedMin != 120 {
		t.Fatalf("used time keeps counting past the budget, got %d", outcome.Session.TotalUsedMin)
	}
}

func TestPauseRequiresActiveSession(t *testing.T) {
	t.Parallel()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{at(10, 0, 0)}})
	svc.Initialize(context.Background(), seed())

	if _, err := svc.Pause(context.Background(), "deep-work", nil); err != apperrors.ErrSessionNotActive {
		t.Fatalf("expected ErrSessionNotActive, got %v", err)
	}
	if _, err := svc.Pause(context.Background(), "missing", nil); err != apperrors.ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestEndPauseRecordsHistoryWithNameSnapshot(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{
		at(10, 0, 0),
		at(10, 30, 0),
		at(10, 35, 45),
	}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Pause(context.Background(), "deep-work", &domain.BlockRef{ID: "rest", Name: "Rest"}); err != nil {
		t.Fatalf("pause: %v", err)
	}

	minutes, target, err := svc.EndPause(context.Background(), "deep-work")
	if err != nil {
		t.Fatalf("end pause: %v", err)
	}
	if minutes != 5 {
		t.Fatalf("5m45s must floor to 5 minutes, got %d", minutes)
	}
	if target == nil || target.Name != "Rest" {
		t.Fatalf("expected Rest target, got %+v", target)
	}

	session, err := svc.Session(context.Background(), "deep-work")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.TotalPauseMin != 5 {
		t.Fatalf("expected 5 pause minutes, got %d", session.TotalPauseMin)
	}
	if len(session.PauseHistory) != 1 || session.PauseHistory[0].TargetBlock != "Rest" {
		t.Fatalf("pause history must snapshot the target name, got %+v", session.PauseHistory)
	}
	if session.PauseStart != nil || session.PauseTarget != nil {
		t.Fatalf("end pause must clear the open pause")
	}
}

func TestEndPauseWithoutOpenPauseIsNoOp(t *testing.T) {
	t.Parallel()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{at(10, 0, 0)}})
	svc.Initialize(context.Background(), seed())

	minutes, target, err := svc.EndPause(context.Background(), "deep-work")
	if err != nil || minutes != 0 || target != nil {
		t.Fatalf("expected zero no-op, got minutes=%d target=%v err=%v", minutes, target, err)
	}
}

func TestStartSettlesOpenPauseFirst(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{
		at(10, 0, 0),
		at(10, 30, 0),
		at(10, 40, 0),
		at(10, 40, 0),
	}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Pause(context.Background(), "deep-work", &domain.BlockRef{ID: "rest", Name: "Rest"}); err != nil {
		t.Fatalf("pause: %v", err)
	}

	session, settlement, err := svc.Start(context.Background(), "deep-work")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if settlement == nil || settlement.DurationMin != 10 {
		t.Fatalf("resume must settle the 10 minute pause, got %+v", settlement)
	}
	if session.State() != domain.StateActive || !session.Consistent() {
		t.Fatalf("resumed session must be cleanly active, got %+v", session)
	}
}

func TestCompleteAccruesRunningInterval(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(10, 0, 0), at(10, 45, 30)}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}

	session, settlement, err := svc.Complete(context.Background(), "deep-work")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if settlement != nil {
		t.Fatalf("no pause was open, settlement must be nil")
	}
	if session.TotalUsedMin != 45 || session.RemainingMin != 15 {
		t.Fatalf("expected 45 used / 15 remaining, got %d/%d", session.TotalUsedMin, session.RemainingMin)
	}
	if session.State() != domain.StateIdle || session.LastStart != nil {
		t.Fatalf("completed session must be idle, got %+v", session)
	}
}

func TestResetRestoresFreshBudget(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(10, 0, 0), at(10, 30, 0)}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Pause(context.Background(), "deep-work", nil); err != nil {
		t.Fatalf("pause: %v", err)
	}

	if err := svc.Reset(context.Background(), "deep-work"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	session, err := svc.Session(context.Background(), "deep-work")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.RemainingMin != 60 || session.TotalUsedMin != 0 || len(session.PauseHistory) != 0 {
		t.Fatalf("reset must restore the just-initialized state, got %+v", session)
	}
}

func TestGrowExtendsBudgetAndRemaining(t *testing.T) {
	t.Parallel()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{at(10, 0, 0)}})
	svc.Initialize(context.Background(), seed())

	svc.Grow(context.Background(), "deep-work", 30)
	session, err := svc.Session(context.Background(), "deep-work")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.DurationMin != 90 || session.RemainingMin != 90 {
		t.Fatalf("grow must extend both duration and remaining, got %d/%d", session.DurationMin, session.RemainingMin)
	}
}

func TestLiveDisplaysTrackTheOpenInterval(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{
		at(10, 0, 0),
		at(10, 2, 30),
		at(10, 2, 30),
	}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}

	elapsed := svc.CurrentElapsedTime(context.Background(), "deep-work")
	if elapsed.Minutes != 2 || elapsed.Seconds != 30 {
		t.Fatalf("expected 02:30 elapsed, got %02d:%02d", elapsed.Minutes, elapsed.Seconds)
	}
	remaining := svc.CurrentRemainingTime(context.Background(), "deep-work")
	if remaining.Minutes != 57 || remaining.Seconds != 30 {
		t.Fatalf("expected 57:30 remaining, got %02d:%02d", remaining.Minutes, remaining.Seconds)
	}
}

func TestIdleDisplaysReadStoredStateRegardlessOfWallClock(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(10, 0, 0), at(10, 30, 0), at(23, 0, 0)}}
	svc := service.NewSessionService(clk)
	svc.Initialize(context.Background(), seed())
	if _, _, err := svc.Start(context.Background(), "deep-work"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Pause(context.Background(), "deep-work", nil); err != nil {
		t.Fatalf("pause: %v", err)
	}

	elapsed := svc.CurrentElapsedTime(context.Background(), "deep-work")
	if elapsed.Minutes != 30 || elapsed.Seconds != 0 {
		t.Fatalf("paused elapsed must read the stored minutes, got %02d:%02d", elapsed.Minutes, elapsed.Seconds)
	}
	remaining := svc.CurrentRemainingTime(context.Background(), "deep-work")
	if remaining.Minutes != 30 || remaining.Seconds != 0 {
		t.Fatalf("paused remaining must not drain, got %02d:%02d", remaining.Minutes, remaining.Seconds)
	}
}

func TestRestoreReplaysSnapshot(t *testing.T) {
	t.Parallel()
	svc := service.NewSessionService(&fakeClock{values: []time.Time{at(10, 0, 0)}})
	svc.Restore(context.Background(), []domain.Session{
		{ActivityID: "a", Name: "A", DurationMin: 60, RemainingMin: 40, TotalUsedMin: 20},
		{ActivityID: "b", Name: "B", DurationMin: 30, RemainingMin: 30},
	})

	sessions := svc.Sessions(context.Background())
	if len(sessions) != 2 || sessions[0].ActivityID != "a" || sessions[1].ActivityID != "b" {
		t.Fatalf("restore must keep snapshot order, got %+v", sessions)
	}
	if sessions[0].RemainingMin != 40 {
		t.Fatalf("restored state must survive, got %+v", sessions[0])
	}
}
