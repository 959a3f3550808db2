package out

import (
	"context"
	"time"

	notifydto "myday/internal/modules/notify/dto"
	notifyin "myday/internal/modules/notify/port/in"
	sessionout "myday/internal/modules/session/port/out"
)

// NotifyBridge satisfies the session module's notifier port with the notify
// module. With no notifier plugins configured every call is a no-op.
type NotifyBridge struct {
	notify notifyin.Usecase
}

func NewNotifyBridge(notify notifyin.Usecase) sessionout.Notifier {
	return &NotifyBridge{notify: notify}
}

func (b *NotifyBridge) ScheduleAlert(ctx context.Context, alertID, title string, at time.Time) error {
	return b.notify.ScheduleAlert(ctx, notifydto.AlertInput{AlertID: alertID, Title: title, At: at})
}

func (b *NotifyBridge) CancelAlert(ctx context.Context, alertID string) error {
	return b.notify.CancelAlert(ctx, alertID)
}

func (b *NotifyBridge) Notify(ctx context.Context, title, body string) error {
	return b.notify.Notify(ctx, notifydto.NotifyInput{Title: title, Body: body})
}
