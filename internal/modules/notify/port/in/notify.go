package in

import (
	"context"

	"myday/internal/modules/notify/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	// Notify fans out to every enabled notifier with the notify capability.
	// Zero configured notifiers is not an error.
	Notify(ctx context.Context, input dto.NotifyInput) error
	ScheduleAlert(ctx context.Context, input dto.AlertInput) error
	CancelAlert(ctx context.Context, alertID string) error
}
