package out

import (
	"context"

	"myday/internal/modules/journal/domain"
)

// HistoryStore is a side projection of every appended entry. It outlives
// the in-memory rolling window but is never read back into it.
type HistoryStore interface {
	Append(ctx context.Context, entry domain.Entry) error
	Tail(ctx context.Context, limit int) ([]domain.Entry, error)
}

type ReportStore interface {
	WriteDaily(ctx context.Context, report domain.DailyReport) (string, error)
}
