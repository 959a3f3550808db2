package in

import (
	"context"

	sessiondto "myday/internal/modules/session/dto"
	sessionin "myday/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, activityID string) (sessiondto.SessionOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{ActivityID: activityID})
}

func (h CLIHandler) Pause(ctx context.Context, destinationBlockID string) (sessiondto.PauseOutput, error) {
	return h.usecase.Pause(ctx, sessiondto.PauseInput{DestinationBlockID: destinationBlockID})
}

func (h CLIHandler) Resume(ctx context.Context) (sessiondto.ResumeOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Switch(ctx context.Context, toActivityID, pauseDestinationID string) (sessiondto.SwitchOutput, error) {
	return h.usecase.Switch(ctx, sessiondto.SwitchInput{ToActivityID: toActivityID, PauseDestinationID: pauseDestinationID})
}

func (h CLIHandler) Finish(ctx context.Context) (sessiondto.FinishOutput, error) {
	return h.usecase.Finish(ctx)
}

func (h CLIHandler) Reset(ctx context.Context, activityID string) error {
	return h.usecase.Reset(ctx, activityID)
}

func (h CLIHandler) Delete(ctx context.Context, activityID string) (sessiondto.RedistributeOutput, error) {
	return h.usecase.DeleteActivity(ctx, activityID)
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Stats(ctx context.Context) (sessiondto.StatsOutput, error) {
	return h.usecase.DailyStats(ctx)
}

func (h CLIHandler) Export(ctx context.Context) (string, error) {
	return h.usecase.ExportDaily(ctx)
}
