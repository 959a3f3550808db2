package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	plandto "myday/internal/modules/plan/dto"
	planin "myday/internal/modules/plan/port/in"

	journaldto "myday/internal/modules/journal/dto"
	journalin "myday/internal/modules/journal/port/in"

	"myday/internal/modules/session/domain"
	sessiondto "myday/internal/modules/session/dto"
	sessionin "myday/internal/modules/session/port/in"
	sessionout "myday/internal/modules/session/port/out"
	"myday/internal/modules/session/service"
	apperrors "myday/internal/platform/errors"
	"myday/internal/platform/timeutil"
	"myday/internal/platform/tx"
)

// Interactor is the session orchestrator: it sequences store mutations,
// ledger recomputation, journal appends, alert scheduling and the state
// snapshot for every compound user action. Execution is single-threaded by
// design; ordering here is the only concurrency discipline required.
type Interactor struct {
	svc      *service.SessionService
	plan     planin.Usecase
	journal  journalin.Usecase
	state    sessionout.StateStore
	notifier sessionout.Notifier
	txm      tx.Manager

	current string
}

func NewInteractor(svc *service.SessionService, plan planin.Usecase, journal journalin.Usecase, state sessionout.StateStore, notifier sessionout.Notifier, txm tx.Manager) sessionin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, plan: plan, journal: journal, state: state, notifier: notifier, txm: txm}
}

func (i *Interactor) Load(ctx context.Context) error {
	if i.state == nil {
		return nil
	}
	snapshot, err := i.state.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidState) {
			return nil
		}
		return err
	}
	i.svc.Restore(ctx, snapshot.Sessions)
	i.current = snapshot.CurrentID
	return i.recompute(ctx)
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	if input.ActivityID == "" {
		return sessiondto.SessionOutput{}, apperrors.ErrInvalidInput
	}
	if i.current != "" && i.current != input.ActivityID {
		if running, err := i.svc.Session(ctx, i.current); err == nil && running.State() != domain.StateIdle {
			return sessiondto.SessionOutput{}, apperrors.ErrSessionRunning
		}
	}
	activity, err := i.plan.Activity(ctx, input.ActivityID)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}

	var out sessiondto.SessionOutput
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		i.svc.Initialize(ctx, service.Seed{
			ActivityID:  activity.ID,
			Name:        activity.Name,
			BlockID:     activity.BlockID,
			DurationMin: activity.DurationMin,
		})
		session, settlement, err := i.svc.Start(ctx, activity.ID)
		if err != nil {
			return err
		}
		if err := i.settlePause(ctx, settlement); err != nil {
			return err
		}
		if err := i.recompute(ctx); err != nil {
			return err
		}
		if err := i.logEvent(ctx, "start", session.Name, session.RemainingMin, 0); err != nil {
			return err
		}
		i.scheduleAlert(ctx, session)
		i.current = session.ActivityID
		out = sessionOutput(session)
		return i.persist(ctx)
	})
	return out, err
}

func (i *Interactor) Pause(ctx context.Context, input sessiondto.PauseInput) (sessiondto.PauseOutput, error) {
	if i.current == "" {
		return sessiondto.PauseOutput{}, apperrors.ErrNoCurrentSession
	}
	target, err := i.resolveTarget(ctx, input.DestinationBlockID)
	if err != nil {
		return sessiondto.PauseOutput{}, err
	}

	var out sessiondto.PauseOutput
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		outcome, err := i.svc.Pause(ctx, i.current, target)
		if err != nil {
			return err
		}
		if err := i.recompute(ctx); err != nil {
			return err
		}
		targetName := "nowhere"
		if outcome.Target != nil {
			targetName = outcome.Target.Name
		}
		description := fmt.Sprintf("Paused %s, time will be credited to %s", outcome.Session.Name, targetName)
		if err := i.logEvent(ctx, "pause", description, outcome.Session.RemainingMin, outcome.ActiveMin); err != nil {
			return err
		}
		i.cancelAlert(ctx, outcome.Session.ActivityID)
		out = sessiondto.PauseOutput{
			Session:   sessionOutput(outcome.Session),
			ActiveMin: outcome.ActiveMin,
		}
		if outcome.Target != nil {
			out.TargetBlockID = outcome.Target.ID
			out.TargetBlockName = outcome.Target.Name
		}
		return i.persist(ctx)
	})
	return out, err
}

func (i *Interactor) Resume(ctx context.Context) (sessiondto.ResumeOutput, error) {
	if i.current == "" {
		return sessiondto.ResumeOutput{}, apperrors.ErrNoCurrentSession
	}
	paused, err := i.svc.Session(ctx, i.current)
	if err != nil {
		return sessiondto.ResumeOutput{}, err
	}
	if paused.State() != domain.StatePaused {
		return sessiondto.ResumeOutput{}, apperrors.ErrSessionNotPaused
	}

	var out sessiondto.ResumeOutput
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		session, settlement, err := i.svc.Start(ctx, i.current)
		if err != nil {
			return err
		}
		if err := i.settlePause(ctx, settlement); err != nil {
			return err
		}
		if err := i.recompute(ctx); err != nil {
			return err
		}
		if err := i.logEvent(ctx, "start", session.Name, session.RemainingMin, 0); err != nil {
			return err
		}
		i.scheduleAlert(ctx, session)
		out = sessiondto.ResumeOutput{Session: sessionOutput(session)}
		if settlement != nil {
			out.PausedMin = settlement.DurationMin
			if settlement.Target != nil {
				out.TargetBlockName = settlement.Target.Name
			}
		}
		return i.persist(ctx)
	})
	return out, err
}

// Switch pauses the running session (attributing its elapsed time) and
// starts the target in one step. With nothing running it degenerates to a
// plain start. Exactly one switch entry is appended either way.
func (i *Interactor) Switch(ctx context.Context, input sessiondto.SwitchInput) (sessiondto.SwitchOutput, error) {
	if input.ToActivityID == "" {
		return sessiondto.SwitchOutput{}, apperrors.ErrInvalidInput
	}
	activity, err := i.plan.Activity(ctx, input.ToActivityID)
	if err != nil {
		return sessiondto.SwitchOutput{}, err
	}

	var out sessiondto.SwitchOutput
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		fromName := "none"
		if i.current != "" && i.current != input.ToActivityID {
			from, err := i.svc.Session(ctx, i.current)
			if err != nil {
				return err
			}
			fromName = from.Name
			switch from.State() {
			case domain.StateActive:
				target, err := i.resolveTarget(ctx, input.PauseDestinationID)
				if err != nil {
					return err
				}
				outcome, err := i.svc.Pause(ctx, i.current, target)
				if err != nil {
					return err
				}
				if err := i.recompute(ctx); err != nil {
					return err
				}
				targetName := "nowhere"
				if outcome.Target != nil {
					targetName = outcome.Target.Name
				}
				description := fmt.Sprintf("Paused %s, time will be credited to %s", outcome.Session.Name, targetName)
				if err := i.logEvent(ctx, "pause", description, outcome.Session.RemainingMin, outcome.ActiveMin); err != nil {
					return err
				}
				paused := sessiondto.PauseOutput{Session: sessionOutput(outcome.Session), ActiveMin: outcome.ActiveMin}
				if outcome.Target != nil {
					paused.TargetBlockID = outcome.Target.ID
					paused.TargetBlockName = outcome.Target.Name
				}
				out.Paused = &paused
			case domain.StatePaused:
				minutes, target, err := i.svc.EndPause(ctx, i.current)
				if err != nil {
					return err
				}
				if err := i.settlePause(ctx, &service.Settlement{DurationMin: minutes, Target: target}); err != nil {
					return err
				}
			}
			i.cancelAlert(ctx, i.current)
		}

		i.svc.Initialize(ctx, service.Seed{
			ActivityID:  activity.ID,
			Name:        activity.Name,
			BlockID:     activity.BlockID,
			DurationMin: activity.DurationMin,
		})
		session, _, err := i.svc.Start(ctx, activity.ID)
		if err != nil {
			return err
		}
		if err := i.recompute(ctx); err != nil {
			return err
		}
		description := fmt.Sprintf("Switched from %s to %s", fromName, session.Name)
		if err := i.logEvent(ctx, "switch", description, session.RemainingMin, 0); err != nil {
			return err
		}
		i.scheduleAlert(ctx, session)
		i.current = session.ActivityID
		out.FromName = fromName
		out.Session = sessionOutput(session)
		return i.persist(ctx)
	})
	return out, err
}

// Finish is the caller-driven completion event: the coarse timer (or the
// user) decided the session is done. The open interval or pause is settled
// and the activity simply stops being current; the session record persists
// and can be restarted.
func (i *Interactor) Finish(ctx context.Context) (sessiondto.FinishOutput, error) {
	if i.current == "" {
		return sessiondto.FinishOutput{}, apperrors.ErrNoCurrentSession
	}

	var out sessiondto.FinishOutput
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		session, settlement, err := i.svc.Complete(ctx, i.current)
		if err != nil {
			return err
		}
		if err := i.settlePause(ctx, settlement); err != nil {
			return err
		}
		if err := i.recompute(ctx); err != nil {
			return err
		}
		if err := i.logEvent(ctx, "complete", session.Name, session.RemainingMin, session.TotalUsedMin); err != nil {
			return err
		}
		i.cancelAlert(ctx, session.ActivityID)
		if i.notifier != nil {
			body := fmt.Sprintf("%s: used %s, paused %s", session.Name,
				timeutil.FormatMinutes(session.TotalUsedMin), timeutil.FormatMinutes(session.TotalPauseMin))
			_ = i.notifier.Notify(ctx, "Time block complete", body)
		}
		i.current = ""
		out = sessiondto.FinishOutput{Session: sessionOutput(session)}
		return i.persist(ctx)
	})
	return out, err
}

func (i *Interactor) Reset(ctx context.Context, activityID string) error {
	return i.txm.Within(ctx, func(ctx context.Context) error {
		if err := i.svc.Reset(ctx, activityID); err != nil {
			return err
		}
		if i.current == activityID {
			i.cancelAlert(ctx, activityID)
			i.current = ""
		}
		if err := i.recompute(ctx); err != nil {
			return err
		}
		return i.persist(ctx)
	})
}

// DeleteActivity removes an activity definition and its session, then
// redistributes the freed budget among the remaining siblings.
func (i *Interactor) DeleteActivity(ctx context.Context, activityID string) (sessiondto.RedistributeOutput, error) {
	activity, err := i.plan.Activity(ctx, activityID)
	if err != nil {
		return sessiondto.RedistributeOutput{}, err
	}
	if i.current == activityID {
		return sessiondto.RedistributeOutput{}, apperrors.ErrSessionRunning
	}
	if _, err := i.plan.RemoveActivity(ctx, activityID); err != nil {
		return sessiondto.RedistributeOutput{}, err
	}
	i.svc.Remove(ctx, activityID)
	return i.Redistribute(ctx, activity.BlockID, activity.DurationMin)
}

// Redistribute hands a deleted activity's minutes to the block's remaining
// children in proportion to their current budgets, floor-rounded per child.
// With no siblings, or a zero sibling total, the minutes are dropped from
// the day rather than returned to the block.
func (i *Interactor) Redistribute(ctx context.Context, blockID string, deletedMin int) (sessiondto.RedistributeOutput, error) {
	out := sessiondto.RedistributeOutput{BlockID: blockID, DeletedMin: deletedMin}
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		if blockID == "" || deletedMin <= 0 {
			return i.persistAfterRecompute(ctx)
		}
		siblings, err := i.plan.ActivitiesOf(ctx, blockID)
		if err != nil {
			return err
		}
		total := 0
		for _, sibling := range siblings {
			total += sibling.DurationMin
		}
		if len(siblings) == 0 || total == 0 {
			return i.persistAfterRecompute(ctx)
		}
		for _, sibling := range siblings {
			added := deletedMin * sibling.DurationMin / total
			if added == 0 {
				continue
			}
			if err := i.plan.GrowActivity(ctx, sibling.ID, added); err != nil {
				return err
			}
			i.svc.Grow(ctx, sibling.ID, added)
			out.Grants = append(out.Grants, sessiondto.Grant{ActivityID: sibling.ID, Name: sibling.Name, AddedMin: added})
		}
		return i.persistAfterRecompute(ctx)
	})
	return out, err
}

func (i *Interactor) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	if i.current == "" {
		return sessiondto.StatusOutput{}, nil
	}
	session, err := i.svc.Session(ctx, i.current)
	if err != nil {
		return sessiondto.StatusOutput{}, err
	}
	current := sessionOutput(session)
	return sessiondto.StatusOutput{
		Current:   &current,
		PauseTime: displayOutput(i.svc.CurrentPauseTime(ctx, i.current)),
		Elapsed:   displayOutput(i.svc.CurrentElapsedTime(ctx, i.current)),
		Remaining: displayOutput(i.svc.CurrentRemainingTime(ctx, i.current)),
	}, nil
}

// DailyStats mixes two scopes on purpose: event counts are cut to today's
// calendar day while the active/pause totals are lifetime sums across all
// sessions. The mismatch mirrors what the stats screen has always shown.
func (i *Interactor) DailyStats(ctx context.Context) (sessiondto.StatsOutput, error) {
	counts, err := i.journal.TodayCounts(ctx)
	if err != nil {
		return sessiondto.StatsOutput{}, err
	}
	activeMin, pauseMin := i.totals(ctx)
	return sessiondto.StatsOutput{
		TotalActiveMin: activeMin,
		TotalPauseMin:  pauseMin,
		Completed:      counts.Completed,
		Switches:       counts.Switches,
		Pauses:         counts.Pauses,
		TotalEvents:    counts.Total,
	}, nil
}

func (i *Interactor) ExportDaily(ctx context.Context) (string, error) {
	activeMin, pauseMin := i.totals(ctx)
	return i.journal.ExportDaily(ctx, journaldto.StatsInput{TotalActiveMin: activeMin, TotalPauseMin: pauseMin})
}

func (i *Interactor) Sessions(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	sessions := i.svc.Sessions(ctx)
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionOutput(s))
	}
	return out, nil
}

func (i *Interactor) Elapsed(ctx context.Context, activityID string) sessiondto.DisplayOutput {
	return displayOutput(i.svc.CurrentElapsedTime(ctx, activityID))
}

func (i *Interactor) Remaining(ctx context.Context, activityID string) sessiondto.DisplayOutput {
	return displayOutput(i.svc.CurrentRemainingTime(ctx, activityID))
}

func (i *Interactor) PauseTime(ctx context.Context, activityID string) sessiondto.DisplayOutput {
	return displayOutput(i.svc.CurrentPauseTime(ctx, activityID))
}

func (i *Interactor) totals(ctx context.Context) (activeMin, pauseMin int) {
	for _, s := range i.svc.Sessions(ctx) {
		activeMin += s.TotalUsedMin
		pauseMin += s.TotalPauseMin
	}
	return activeMin, pauseMin
}

// settlePause records a finalized pause: the pause_end entry plus, when the
// minutes landed in a block, the block consumption entry.
func (i *Interactor) settlePause(ctx context.Context, settlement *service.Settlement) error {
	if settlement == nil {
		return nil
	}
	if err := i.recompute(ctx); err != nil {
		return err
	}
	targetName := "nowhere"
	if settlement.Target != nil {
		targetName = settlement.Target.Name
	}
	description := fmt.Sprintf("Pause ended after %dm, credited to %s", settlement.DurationMin, targetName)
	if err := i.logEvent(ctx, "pause_end", description, 0, settlement.DurationMin); err != nil {
		return err
	}
	if settlement.Target != nil && settlement.DurationMin > 0 {
		remaining := 0
		if block, err := i.plan.Block(ctx, settlement.Target.ID); err == nil {
			remaining = block.DurationMin - block.ConsumedMin
		}
		consumed := fmt.Sprintf("%s consumed %dm", targetName, settlement.DurationMin)
		if err := i.logEvent(ctx, "major_block_consume", consumed, remaining, settlement.DurationMin); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interactor) resolveTarget(ctx context.Context, destinationBlockID string) (*domain.BlockRef, error) {
	if destinationBlockID != "" {
		block, err := i.plan.Block(ctx, destinationBlockID)
		if err != nil {
			return nil, err
		}
		return &domain.BlockRef{ID: block.ID, Name: block.Name}, nil
	}
	if block, ok := i.plan.DefaultPauseTarget(ctx); ok {
		return &domain.BlockRef{ID: block.ID, Name: block.Name}, nil
	}
	return nil, nil
}

func (i *Interactor) recompute(ctx context.Context) error {
	sessions := i.svc.Sessions(ctx)
	usages := make([]plandto.UsageInput, 0, len(sessions))
	for _, s := range sessions {
		credits := make([]plandto.PauseCreditInput, 0, len(s.PauseHistory))
		for _, record := range s.PauseHistory {
			credits = append(credits, plandto.PauseCreditInput{TargetName: record.TargetBlock, Minutes: record.DurationMin})
		}
		usages = append(usages, plandto.UsageInput{
			ActivityID:   s.ActivityID,
			BlockID:      s.BlockID,
			UsedMin:      s.TotalUsedMin,
			PauseCredits: credits,
		})
	}
	return i.plan.Recompute(ctx, usages)
}

func (i *Interactor) persistAfterRecompute(ctx context.Context) error {
	if err := i.recompute(ctx); err != nil {
		return err
	}
	return i.persist(ctx)
}

func (i *Interactor) persist(ctx context.Context) error {
	if i.state == nil {
		return nil
	}
	return i.state.Save(ctx, domain.Snapshot{
		SchemaVersion: domain.SchemaVersion,
		SavedAt:       i.svc.Now(),
		CurrentID:     i.current,
		Sessions:      i.svc.Sessions(ctx),
	})
}

func (i *Interactor) logEvent(ctx context.Context, kind, description string, remainingMin, durationMin int) error {
	if i.journal == nil {
		return nil
	}
	_, err := i.journal.Append(ctx, journaldto.AppendInput{
		Kind:         kind,
		Description:  description,
		RemainingMin: remainingMin,
		DurationMin:  durationMin,
	})
	return err
}

func (i *Interactor) scheduleAlert(ctx context.Context, session domain.Session) {
	if i.notifier == nil || session.RemainingMin <= 0 {
		return
	}
	at := i.svc.Now().Add(time.Duration(session.RemainingMin) * time.Minute)
	_ = i.notifier.ScheduleAlert(ctx, alertID(session.ActivityID), session.Name, at)
}

func (i *Interactor) cancelAlert(ctx context.Context, activityID string) {
	if i.notifier == nil {
		return
	}
	_ = i.notifier.CancelAlert(ctx, alertID(activityID))
}

func alertID(activityID string) string {
	return "block_end_" + activityID
}

func sessionOutput(s domain.Session) sessiondto.SessionOutput {
	out := sessiondto.SessionOutput{
		ActivityID:     s.ActivityID,
		Name:           s.Name,
		BlockID:        s.BlockID,
		State:          string(s.State()),
		DurationMin:    s.DurationMin,
		RemainingMin:   s.RemainingMin,
		TotalUsedMin:   s.TotalUsedMin,
		TotalPauseMin:  s.TotalPauseMin,
		AccumulatedMin: s.AccumulatedMin,
	}
	if s.PauseTarget != nil {
		out.PauseTargetName = s.PauseTarget.Name
	}
	return out
}

func displayOutput(d timeutil.Display) sessiondto.DisplayOutput {
	return sessiondto.DisplayOutput{Minutes: d.Minutes, Seconds: d.Seconds}
}
