package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	journalinadapter "myday/internal/modules/journal/adapter/in"
	journaloutadapter "myday/internal/modules/journal/adapter/out"
	journalservice "myday/internal/modules/journal/service"
	journalusecase "myday/internal/modules/journal/usecase"
	notifyinadapter "myday/internal/modules/notify/adapter/in"
	notifyoutadapter "myday/internal/modules/notify/adapter/out"
	notifyservice "myday/internal/modules/notify/service"
	notifyusecase "myday/internal/modules/notify/usecase"
	planinadapter "myday/internal/modules/plan/adapter/in"
	planoutadapter "myday/internal/modules/plan/adapter/out"
	planservice "myday/internal/modules/plan/service"
	planusecase "myday/internal/modules/plan/usecase"
	sessioninadapter "myday/internal/modules/session/adapter/in"
	sessionoutadapter "myday/internal/modules/session/adapter/out"
	sessionservice "myday/internal/modules/session/service"
	sessionusecase "myday/internal/modules/session/usecase"
	"myday/internal/platform/clock"
	"myday/internal/platform/config"
	"myday/internal/platform/id"
	"myday/internal/platform/tx"
	uiapp "myday/internal/ui/app"
)

type App struct {
	PlanCLI    planinadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler
	JournalCLI journalinadapter.CLIHandler
	NotifyCLI  notifyinadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	planSvc := planservice.NewLedgerService()
	planUC := planusecase.NewInteractor(planSvc, planoutadapter.NewYAMLPlanStore(cfg.PlanPath))

	notifyUC := notifyusecase.NewInteractor(notifyservice.NewNotifyService(
		notifyoutadapter.NewFileManifestStore(cfg.PluginPath),
		notifyoutadapter.NewGRPCHost(),
	))

	history, err := journaloutadapter.NewSQLiteHistoryStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new journal history store: %w", err)
	}
	journalUC := journalusecase.NewInteractor(
		journalservice.NewJournalService(clk, ids),
		planUC,
		history,
		journaloutadapter.NewMarkdownReportStore(cfg.ReportPath),
		clk,
	)

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk),
		planUC,
		journalUC,
		sessionoutadapter.NewFileStateStore(cfg.StatePath),
		sessionoutadapter.NewNotifyBridge(notifyUC),
		tx.NoopManager{},
	)

	ctx := context.Background()
	if err := planUC.Load(ctx); err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	if err := sessionUC.Load(ctx); err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}

	return &App{
		PlanCLI:    planinadapter.NewCLIHandler(planUC),
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		JournalCLI: journalinadapter.NewCLIHandler(journalUC),
		NotifyCLI:  notifyinadapter.NewCLIHandler(notifyUC),
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.PlanCLI, app.JournalCLI, app.NotifyCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
