package out

import (
	"context"
	"time"

	"myday/internal/modules/session/domain"
)

// StateStore persists the whole runtime state as one opaque blob.
type StateStore interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Load(ctx context.Context) (domain.Snapshot, error)
}

// Notifier is the feedback collaborator: it delivers nothing itself, it
// only forwards schedule/cancel requests to whatever is wired behind it.
type Notifier interface {
	ScheduleAlert(ctx context.Context, alertID, title string, at time.Time) error
	CancelAlert(ctx context.Context, alertID string) error
	Notify(ctx context.Context, title, body string) error
}
