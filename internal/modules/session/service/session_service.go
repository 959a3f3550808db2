package service

import (
	"context"
	"time"

	"myday/internal/modules/session/domain"
	"myday/internal/platform/clock"
	apperrors "myday/internal/platform/errors"
	"myday/internal/platform/timeutil"
)

// Seed carries the activity definition a session is created from.
type Seed struct {
	ActivityID  string
	Name        string
	BlockID     string
	DurationMin int
}

// PauseOutcome reports what a pause accrued and where its minutes will go.
type PauseOutcome struct {
	Session   domain.Session
	ActiveMin int
	Target    *domain.BlockRef
}

// Settlement reports a finalized pause interval.
type Settlement struct {
	DurationMin int
	Target      *domain.BlockRef
}

// SessionService is the single source of truth for per-activity runtime
// state. It owns the session map; the ledger only ever reads from it.
type SessionService struct {
	clock    clock.Clock
	sessions map[string]*domain.Session
	order    []string
}

func NewSessionService(clk clock.Clock) *SessionService {
	return &SessionService{clock: clk, sessions: make(map[string]*domain.Session)}
}

// Initialize creates the session for an activity on first reference and is a
// no-op afterwards. It never fails.
func (s *SessionService) Initialize(_ context.Context, seed Seed) domain.Session {
	if existing, ok := s.sessions[seed.ActivityID]; ok {
		return *existing
	}
	session := &domain.Session{
		ActivityID:   seed.ActivityID,
		Name:         seed.Name,
		BlockID:      seed.BlockID,
		DurationMin:  seed.DurationMin,
		RemainingMin: seed.DurationMin,
	}
	s.sessions[seed.ActivityID] = session
	s.order = append(s.order, seed.ActivityID)
	return *session
}

// Start marks the session active. An open pause is settled first so active
// and paused are never open together; the settlement is returned for the
// caller's bookkeeping.
func (s *SessionService) Start(ctx context.Context, activityID string) (domain.Session, *Settlement, error) {
	session, ok := s.sessions[activityID]
	if !ok {
		return domain.Session{}, nil, apperrors.ErrNoSession
	}
	var settlement *Settlement
	if session.PauseStart != nil {
		minutes, target, err := s.EndPause(ctx, activityID)
		if err != nil {
			return domain.Session{}, nil, err
		}
		settlement = &Settlement{DurationMin: minutes, Target: target}
	}
	now := s.clock.Now()
	session.Active = true
	session.LastStart = &now
	return *session, settlement, nil
}

// Pause closes the running interval at whole-minute granularity and opens a
// pause pointed at target. Sub-minute time is truncated, not carried.
func (s *SessionService) Pause(_ context.Context, activityID string, target *domain.BlockRef) (PauseOutcome, error) {
	session, ok := s.sessions[activityID]
	if !ok {
		return PauseOutcome{}, apperrors.ErrNoSession
	}
	if !session.Active || session.LastStart == nil {
		return PauseOutcome{}, apperrors.ErrSessionNotActive
	}

	now := s.clock.Now()
	activeSeconds := timeutil.WholeSeconds(now.Sub(*session.LastStart))
	activeMinutes := activeSeconds / 60

	session.AccumulatedMin += activeMinutes
	session.RemainingMin -= activeMinutes
	if session.RemainingMin < 0 {
		session.RemainingMin = 0
	}
	session.TotalUsedMin += activeMinutes
	session.Active = false
	session.PauseStart = &now
	session.PauseTarget = target

	return PauseOutcome{Session: *session, ActiveMin: activeMinutes, Target: target}, nil
}

// EndPause finalizes the open pause: its whole-minute duration lands in
// TotalPauseMin and the history, with the target block name snapshotted.
// Calling it on a session without an open pause is a no-op returning zero.
func (s *SessionService) EndPause(_ context.Context, activityID string) (int, *domain.BlockRef, error) {
	session, ok := s.sessions[activityID]
	if !ok {
		return 0, nil, apperrors.ErrNoSession
	}
	if session.PauseStart == nil {
		return 0, nil, nil
	}

	now := s.clock.Now()
	minutes := timeutil.WholeMinutes(now.Sub(*session.PauseStart))
	target := session.PauseTarget

	session.TotalPauseMin += minutes
	session.PauseStart = nil
	session.PauseTarget = nil
	record := domain.PauseRecord{DurationMin: minutes, At: now}
	if target != nil {
		record.TargetBlock = target.Name
	}
	session.PauseHistory = append(session.PauseHistory, record)

	return minutes, target, nil
}

// Complete closes out a session at its natural end: an open pause is
// settled, a still-running interval is accrued, and the session goes idle.
func (s *SessionService) Complete(ctx context.Context, activityID string) (domain.Session, *Settlement, error) {
	session, ok := s.sessions[activityID]
	if !ok {
		return domain.Session{}, nil, apperrors.ErrNoSession
	}
	var settlement *Settlement
	if session.PauseStart != nil {
		minutes, target, err := s.EndPause(ctx, activityID)
		if err != nil {
			return domain.Session{}, nil, err
		}
		settlement = &Settlement{DurationMin: minutes, Target: target}
	}
	if session.Active && session.LastStart != nil {
		now := s.clock.Now()
		activeMinutes := timeutil.WholeSeconds(now.Sub(*session.LastStart)) / 60
		session.AccumulatedMin += activeMinutes
		session.RemainingMin -= activeMinutes
		if session.RemainingMin < 0 {
			session.RemainingMin = 0
		}
		session.TotalUsedMin += activeMinutes
	}
	session.Active = false
	session.LastStart = nil
	return *session, settlement, nil
}

// Reset restores the just-initialized state, budget included.
func (s *SessionService) Reset(_ context.Context, activityID string) error {
	session, ok := s.sessions[activityID]
	if !ok {
		return apperrors.ErrNoSession
	}
	*session = domain.Session{
		ActivityID:   session.ActivityID,
		Name:         session.Name,
		BlockID:      session.BlockID,
		DurationMin:  session.DurationMin,
		RemainingMin: session.DurationMin,
	}
	return nil
}

// Grow enlarges a live session's budget during redistribution so an
// in-progress sibling immediately sees the extra minutes.
func (s *SessionService) Grow(_ context.Context, activityID string, addMin int) {
	session, ok := s.sessions[activityID]
	if !ok {
		return
	}
	session.DurationMin += addMin
	session.RemainingMin += addMin
}

// Remove drops a session entirely (the activity was deleted).
func (s *SessionService) Remove(_ context.Context, activityID string) {
	if _, ok := s.sessions[activityID]; !ok {
		return
	}
	delete(s.sessions, activityID)
	for i, id := range s.order {
		if id == activityID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SessionService) Session(_ context.Context, activityID string) (domain.Session, error) {
	session, ok := s.sessions[activityID]
	if !ok {
		return domain.Session{}, apperrors.ErrNoSession
	}
	return *session, nil
}

func (s *SessionService) Sessions(context.Context) []domain.Session {
	out := make([]domain.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.sessions[id])
	}
	return out
}

// Restore replays a persisted snapshot into the in-memory map.
func (s *SessionService) Restore(_ context.Context, sessions []domain.Session) {
	s.sessions = make(map[string]*domain.Session, len(sessions))
	s.order = s.order[:0]
	for i := range sessions {
		session := sessions[i]
		s.sessions[session.ActivityID] = &session
		s.order = append(s.order, session.ActivityID)
	}
}

// CurrentPauseTime is the live length of the open pause, zero otherwise.
func (s *SessionService) CurrentPauseTime(_ context.Context, activityID string) timeutil.Display {
	session, ok := s.sessions[activityID]
	if !ok || session.PauseStart == nil {
		return timeutil.Display{}
	}
	return timeutil.DisplayFromSeconds(timeutil.WholeSeconds(s.clock.Now().Sub(*session.PauseStart)))
}

// CurrentElapsedTime is accumulated minutes plus the running interval at
// second precision; for a session that is not active, the stored minute
// total with zero seconds.
func (s *SessionService) CurrentElapsedTime(_ context.Context, activityID string) timeutil.Display {
	session, ok := s.sessions[activityID]
	if !ok {
		return timeutil.Display{}
	}
	if session.Active && session.LastStart != nil {
		liveSeconds := timeutil.WholeSeconds(s.clock.Now().Sub(*session.LastStart))
		return timeutil.DisplayFromSeconds(session.AccumulatedMin*60 + liveSeconds)
	}
	return timeutil.Display{Minutes: session.AccumulatedMin}
}

// CurrentRemainingTime counts down from the stored remaining minutes while
// active, clamped at zero; idle and paused sessions read the stored value
// untouched no matter how much wall time passes.
func (s *SessionService) CurrentRemainingTime(_ context.Context, activityID string) timeutil.Display {
	session, ok := s.sessions[activityID]
	if !ok {
		return timeutil.Display{}
	}
	if session.Active && session.LastStart != nil {
		liveSeconds := timeutil.WholeSeconds(s.clock.Now().Sub(*session.LastStart))
		remaining := session.RemainingMin*60 - liveSeconds
		if remaining < 0 {
			remaining = 0
		}
		return timeutil.DisplayFromSeconds(remaining)
	}
	return timeutil.Display{Minutes: session.RemainingMin}
}

// now is exposed for the orchestrator's alert scheduling.
func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}
