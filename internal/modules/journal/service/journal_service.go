package service

import (
	"context"
	"time"

	"myday/internal/modules/journal/domain"
	"myday/internal/platform/clock"
	"myday/internal/platform/id"
	"myday/internal/platform/timeutil"
)

// JournalService keeps the rolling in-memory activity log. Entries older
// than the 24h window are purged on every append; the calendar-day filter
// for stats is a separate, narrower cut.
type JournalService struct {
	clock   clock.Clock
	idGen   id.Generator
	entries []domain.Entry
}

func NewJournalService(clk clock.Clock, idGen id.Generator) *JournalService {
	return &JournalService{clock: clk, idGen: idGen}
}

func (s *JournalService) Append(_ context.Context, kind domain.Kind, description string, remainingMin, durationMin int, blocks []domain.BlockStatus) (domain.Entry, error) {
	if err := kind.Validate(); err != nil {
		return domain.Entry{}, err
	}
	now := s.clock.Now()
	entry := domain.Entry{
		ID:           s.idGen.New(),
		At:           now,
		Kind:         kind,
		Description:  description,
		RemainingMin: remainingMin,
		DurationMin:  durationMin,
		Blocks:       append([]domain.BlockStatus(nil), blocks...),
	}
	s.entries = append(s.entries, entry)
	s.prune(now)
	return entry, nil
}

func (s *JournalService) prune(now time.Time) {
	cutoff := now.Add(-domain.Window)
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.At.After(cutoff) {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}

// Entries returns the log newest-first.
func (s *JournalService) Entries(context.Context) []domain.Entry {
	out := make([]domain.Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

// TodayCounts tallies events on the current calendar day. This is narrower
// than the pruning window on purpose: stats are scoped to "today" while the
// log itself keeps a full rolling day.
func (s *JournalService) TodayCounts(context.Context) domain.Counts {
	now := s.clock.Now()
	counts := domain.Counts{}
	for _, e := range s.entries {
		if !timeutil.SameDay(e.At, now) {
			continue
		}
		counts.Total++
		switch e.Kind {
		case domain.KindComplete:
			counts.Completed++
		case domain.KindSwitch:
			counts.Switches++
		case domain.KindPause:
			counts.Pauses++
		}
	}
	return counts
}

// Restore replays persisted entries (oldest-first) into the window.
func (s *JournalService) Restore(_ context.Context, entries []domain.Entry) {
	s.entries = append([]domain.Entry(nil), entries...)
	s.prune(s.clock.Now())
}
