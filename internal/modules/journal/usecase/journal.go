package usecase

import (
	"context"

	"myday/internal/modules/journal/domain"
	"myday/internal/modules/journal/dto"
	journalin "myday/internal/modules/journal/port/in"
	journalout "myday/internal/modules/journal/port/out"
	"myday/internal/modules/journal/service"
	planin "myday/internal/modules/plan/port/in"
	"myday/internal/platform/clock"
)

type Interactor struct {
	svc     *service.JournalService
	plan    planin.Usecase
	history journalout.HistoryStore
	reports journalout.ReportStore
	clock   clock.Clock
}

func NewInteractor(svc *service.JournalService, plan planin.Usecase, history journalout.HistoryStore, reports journalout.ReportStore, clk clock.Clock) journalin.Usecase {
	return &Interactor{svc: svc, plan: plan, history: history, reports: reports, clock: clk}
}

// Append snapshots the ledger status by value at the moment of the event and
// projects the entry into the history store after the window prune.
func (i *Interactor) Append(ctx context.Context, input dto.AppendInput) (dto.EntryOutput, error) {
	blocks := i.blockSnapshot(ctx)
	entry, err := i.svc.Append(ctx, domain.Kind(input.Kind), input.Description, input.RemainingMin, input.DurationMin, blocks)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	if i.history != nil {
		if err := i.history.Append(ctx, entry); err != nil {
			return dto.EntryOutput{}, err
		}
	}
	return entryOutput(entry), nil
}

func (i *Interactor) Entries(ctx context.Context) ([]dto.EntryOutput, error) {
	entries := i.svc.Entries(ctx)
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryOutput(e))
	}
	return out, nil
}

func (i *Interactor) TodayCounts(ctx context.Context) (dto.CountsOutput, error) {
	counts := i.svc.TodayCounts(ctx)
	return dto.CountsOutput{
		Completed: counts.Completed,
		Switches:  counts.Switches,
		Pauses:    counts.Pauses,
		Total:     counts.Total,
	}, nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	if i.history == nil {
		return nil, nil
	}
	entries, err := i.history.Tail(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryOutput(e))
	}
	return out, nil
}

func (i *Interactor) ExportDaily(ctx context.Context, totals dto.StatsInput) (string, error) {
	report := domain.DailyReport{
		Date:           i.clock.Now(),
		Counts:         i.svc.TodayCounts(ctx),
		TotalActiveMin: totals.TotalActiveMin,
		TotalPauseMin:  totals.TotalPauseMin,
		Blocks:         i.blockSnapshot(ctx),
		Entries:        i.svc.Entries(ctx),
	}
	return i.reports.WriteDaily(ctx, report)
}

func (i *Interactor) blockSnapshot(ctx context.Context) []domain.BlockStatus {
	if i.plan == nil {
		return nil
	}
	statuses, err := i.plan.Status(ctx)
	if err != nil {
		return nil
	}
	out := make([]domain.BlockStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, domain.BlockStatus{
			ID:           s.ID,
			Name:         s.Name,
			RemainingMin: s.RemainingMin,
			ProgressPct:  s.ProgressPct,
		})
	}
	return out
}

func entryOutput(e domain.Entry) dto.EntryOutput {
	blocks := make([]dto.BlockStatusOutput, 0, len(e.Blocks))
	for _, b := range e.Blocks {
		blocks = append(blocks, dto.BlockStatusOutput{
			ID:           b.ID,
			Name:         b.Name,
			RemainingMin: b.RemainingMin,
			ProgressPct:  b.ProgressPct,
		})
	}
	return dto.EntryOutput{
		ID:           e.ID,
		At:           e.At,
		Kind:         string(e.Kind),
		Description:  e.Description,
		RemainingMin: e.RemainingMin,
		DurationMin:  e.DurationMin,
		Blocks:       blocks,
	}
}
