package service

import (
	"context"
	"fmt"

	"myday/internal/modules/plan/domain"
	apperrors "myday/internal/platform/errors"
	"myday/internal/platform/timeutil"
)

// LedgerService owns the day's major blocks and activity definitions and
// keeps each block's consumed time derivable from session usage.
type LedgerService struct {
	blocks     []domain.Block
	activities map[string]domain.Activity
	order      []string
	pauseDest  string
}

func NewLedgerService() *LedgerService {
	return &LedgerService{activities: make(map[string]domain.Activity)}
}

// SetBlocks replaces the day's blocks. Consumed time is zeroed rather than
// trusted from the caller; Recompute restores it from session data. The
// default pause destination is the first rest-like block, then the second
// block of the day, then none.
func (s *LedgerService) SetBlocks(_ context.Context, blocks []domain.Block) error {
	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidPlan, err)
		}
	}
	s.blocks = make([]domain.Block, len(blocks))
	copy(s.blocks, blocks)
	for i := range s.blocks {
		s.blocks[i].ConsumedMin = 0
	}

	s.pauseDest = ""
	for _, b := range s.blocks {
		if b.IsRestLike() {
			s.pauseDest = b.ID
			break
		}
	}
	if s.pauseDest == "" && len(s.blocks) > 1 {
		s.pauseDest = s.blocks[1].ID
	}
	return nil
}

func (s *LedgerService) SetActivities(_ context.Context, activities []domain.Activity) error {
	next := make(map[string]domain.Activity, len(activities))
	order := make([]string, 0, len(activities))
	for _, a := range activities {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidPlan, err)
		}
		if _, dup := next[a.ID]; dup {
			return fmt.Errorf("%w: duplicate activity id %q", apperrors.ErrInvalidPlan, a.ID)
		}
		next[a.ID] = a
		order = append(order, a.ID)
	}
	s.activities = next
	s.order = order
	return nil
}

func (s *LedgerService) Blocks(context.Context) []domain.Block {
	out := make([]domain.Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

func (s *LedgerService) Block(_ context.Context, id string) (domain.Block, error) {
	for _, b := range s.blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Block{}, apperrors.ErrNotFound
}

func (s *LedgerService) Activity(_ context.Context, id string) (domain.Activity, error) {
	a, ok := s.activities[id]
	if !ok {
		return domain.Activity{}, apperrors.ErrNotFound
	}
	return a, nil
}

func (s *LedgerService) Activities(context.Context) []domain.Activity {
	out := make([]domain.Activity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.activities[id])
	}
	return out
}

func (s *LedgerService) ActivitiesOf(_ context.Context, blockID string) []domain.Activity {
	out := make([]domain.Activity, 0)
	for _, id := range s.order {
		if a := s.activities[id]; a.BlockID == blockID {
			out = append(out, a)
		}
	}
	return out
}

// DefaultPauseTarget returns the block credited with pause time when the
// caller does not pick one.
func (s *LedgerService) DefaultPauseTarget(ctx context.Context) (domain.Block, bool) {
	if s.pauseDest == "" {
		return domain.Block{}, false
	}
	b, err := s.Block(ctx, s.pauseDest)
	if err != nil {
		return domain.Block{}, false
	}
	return b, true
}

// Recompute rebuilds every block's consumed time from scratch: the summed
// used minutes of the block's own activities, plus, for rest-like blocks,
// every pause credit across all sessions whose recorded target name matches.
// Attribution is by name snapshot, so credits survive later renames of the
// live block without being rewritten.
func (s *LedgerService) Recompute(_ context.Context, usages []domain.Usage) {
	for i := range s.blocks {
		block := &s.blocks[i]
		total := 0
		for _, u := range usages {
			if u.BlockID == block.ID {
				total += u.UsedMin
			}
			if block.IsRestLike() {
				for _, credit := range u.PauseCredits {
					if credit.TargetName == block.Name {
						total += credit.Minutes
					}
				}
			}
		}
		block.ConsumedMin = total
	}
}

// Status derives the per-block view. Progress is unclamped; a zero-duration
// block reads 0% instead of dividing by zero.
func (s *LedgerService) Status(context.Context) []domain.BlockStatus {
	out := make([]domain.BlockStatus, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, domain.BlockStatus{
			ID:           b.ID,
			Name:         b.Name,
			RemainingMin: b.DurationMin - b.ConsumedMin,
			ProgressPct:  timeutil.Progress(float64(b.ConsumedMin), float64(b.DurationMin)),
		})
	}
	return out
}

// AddActivity registers a new definition at the end of the day's order.
func (s *LedgerService) AddActivity(_ context.Context, a domain.Activity) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidPlan, err)
	}
	if _, dup := s.activities[a.ID]; dup {
		return fmt.Errorf("%w: duplicate activity id %q", apperrors.ErrInvalidPlan, a.ID)
	}
	s.activities[a.ID] = a
	s.order = append(s.order, a.ID)
	return nil
}

// GrowActivity enlarges an activity's budget in place. Used by
// redistribution after a sibling is deleted.
func (s *LedgerService) GrowActivity(_ context.Context, id string, addMin int) error {
	a, ok := s.activities[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if addMin < 0 {
		return apperrors.ErrInvalidInput
	}
	a.DurationMin += addMin
	s.activities[id] = a
	return nil
}

// RemoveActivity drops the definition and returns it so the orchestrator can
// redistribute its budget.
func (s *LedgerService) RemoveActivity(_ context.Context, id string) (domain.Activity, error) {
	a, ok := s.activities[id]
	if !ok {
		return domain.Activity{}, apperrors.ErrNotFound
	}
	delete(s.activities, id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return a, nil
}

func (s *LedgerService) Plan(ctx context.Context) domain.Plan {
	return domain.Plan{Blocks: s.Blocks(ctx), Activities: s.Activities(ctx)}
}
