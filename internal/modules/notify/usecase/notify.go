package usecase

import (
	"context"

	"myday/internal/modules/notify/dto"
	notifyin "myday/internal/modules/notify/port/in"
	"myday/internal/modules/notify/service"
)

type Interactor struct {
	svc *service.NotifyService
}

func NewInteractor(svc *service.NotifyService) notifyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Notify(ctx context.Context, input dto.NotifyInput) error {
	return i.svc.Notify(ctx, input)
}

func (i *Interactor) ScheduleAlert(ctx context.Context, input dto.AlertInput) error {
	return i.svc.ScheduleAlert(ctx, input)
}

func (i *Interactor) CancelAlert(ctx context.Context, alertID string) error {
	return i.svc.CancelAlert(ctx, alertID)
}
