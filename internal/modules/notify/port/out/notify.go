package out

import (
	"context"

	"myday/internal/modules/notify/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Notify(ctx context.Context, manifest domain.Manifest, message domain.Message) error
	ScheduleAlert(ctx context.Context, manifest domain.Manifest, alert domain.Alert) error
	CancelAlert(ctx context.Context, manifest domain.Manifest, alertID string) error
}
