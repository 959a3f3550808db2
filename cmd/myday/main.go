package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"myday/internal/bootstrap"
	journaldto "myday/internal/modules/journal/dto"
	plandto "myday/internal/modules/plan/dto"
	"myday/internal/platform/config"
	"myday/internal/platform/timeutil"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataPath string

	root := &cobra.Command{
		Use:           "myday",
		Short:         "Body-aware daily time manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataPath, "data", ".", "data directory")

	root.AddCommand(newTUICmd(&dataPath))
	root.AddCommand(newPlanCmd(&dataPath))
	root.AddCommand(newAddCmd(&dataPath))
	root.AddCommand(newStartCmd(&dataPath))
	root.AddCommand(newPauseCmd(&dataPath))
	root.AddCommand(newResumeCmd(&dataPath))
	root.AddCommand(newSwitchCmd(&dataPath))
	root.AddCommand(newFinishCmd(&dataPath))
	root.AddCommand(newResetCmd(&dataPath))
	root.AddCommand(newDeleteCmd(&dataPath))
	root.AddCommand(newStatusCmd(&dataPath))
	root.AddCommand(newLogCmd(&dataPath))
	root.AddCommand(newStatsCmd(&dataPath))
	root.AddCommand(newNotifyCmd(&dataPath))
	return root
}

func loadApp(dataPath string) (*bootstrap.App, error) {
	cfg, err := config.New(dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run myday terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newPlanCmd(dataPath *string) *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Day plan commands"}

	plan.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default day plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.InitPlan(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan written: %d blocks, %d activities\n", len(out.Blocks), len(out.Activities))
			return nil
		},
	})

	plan.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show blocks and activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.GetPlan(context.Background())
			if err != nil {
				return err
			}
			for _, b := range out.Blocks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", b.ID, b.Name, timeutil.FormatMinutes(b.DurationMin))
				for _, a := range out.Activities {
					if a.BlockID == b.ID {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s %s\t%s\n", a.ID, a.Icon, a.Name, timeutil.FormatMinutes(a.DurationMin))
					}
				}
			}
			for _, a := range out.Activities {
				if a.BlockID == "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s %s\t%s\t(unassigned)\n", a.ID, a.Icon, a.Name, timeutil.FormatMinutes(a.DurationMin))
				}
			}
			return nil
		},
	})

	plan.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the block budget ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			status, err := app.PlanCLI.Status(context.Background())
			if err != nil {
				return err
			}
			for _, s := range status {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s left\t%.1f%%\n", s.Name, timeutil.FormatMinutes(s.RemainingMin), s.ProgressPct)
			}
			return nil
		},
	})

	return plan
}

func newAddCmd(dataPath *string) *cobra.Command {
	var block string
	var minutes int
	var temp bool
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an activity to the day plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.AddActivity(context.Background(), plandto.AddActivityInput{
				Name:        strings.Join(args, " "),
				BlockID:     block,
				DurationMin: minutes,
				Temporary:   temp,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) with %s\n", out.Name, out.ID, timeutil.FormatMinutes(out.DurationMin))
			return nil
		},
	}
	add.Flags().StringVar(&block, "block", "", "block the activity belongs to")
	add.Flags().IntVar(&minutes, "minutes", 60, "time budget in minutes")
	add.Flags().BoolVar(&temp, "temp", false, "mark the activity as temporary")
	return add
}

func newStartCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start <activity>",
		Short: "Start a session for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Start(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s, %s remaining\n", out.Name, timeutil.FormatMinutes(out.RemainingMin))
			return nil
		},
	}
}

func newPauseCmd(dataPath *string) *cobra.Command {
	var toBlock string
	pause := &cobra.Command{
		Use:   "pause",
		Short: "Pause the running session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Pause(context.Background(), toBlock)
			if err != nil {
				return err
			}
			target := out.TargetBlockName
			if target == "" {
				target = "nowhere"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused %s after %s, pause time goes to %s\n", out.Session.Name, timeutil.FormatMinutes(out.ActiveMin), target)
			return nil
		},
	}
	pause.Flags().StringVar(&toBlock, "to", "", "block to credit the pause to (defaults to the rest block)")
	return pause
}

func newResumeCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the paused session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Resume(context.Background())
			if err != nil {
				return err
			}
			if out.PausedMin > 0 && out.TargetBlockName != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "resumed %s, %s credited to %s\n", out.Session.Name, timeutil.FormatMinutes(out.PausedMin), out.TargetBlockName)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "resumed %s\n", out.Session.Name)
			}
			return nil
		},
	}
}

func newSwitchCmd(dataPath *string) *cobra.Command {
	var toBlock string
	sw := &cobra.Command{
		Use:   "switch <activity>",
		Short: "Switch to another activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Switch(context.Background(), args[0], toBlock)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "switched from %s to %s\n", out.FromName, out.Session.Name)
			return nil
		},
	}
	sw.Flags().StringVar(&toBlock, "to", "", "block to credit the outgoing pause to")
	return sw
}

func newFinishCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "finish",
		Short: "Finish the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Finish(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "finished %s: %s active, %s paused\n", out.Session.Name,
				timeutil.FormatMinutes(out.Session.TotalUsedMin), timeutil.FormatMinutes(out.Session.TotalPauseMin))
			return nil
		},
	}
}

func newResetCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <activity>",
		Short: "Reset an activity's session to a fresh state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Reset(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", args[0])
			return nil
		},
	}
}

func newDeleteCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <activity>",
		Short: "Delete an activity and redistribute its budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Delete(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(out.Grants) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s, %s dropped (no siblings to inherit)\n", args[0], timeutil.FormatMinutes(out.DeletedMin))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s, %s redistributed:\n", args[0], timeutil.FormatMinutes(out.DeletedMin))
			for _, g := range out.Grants {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\t+%s\n", g.Name, timeutil.FormatMinutes(g.AddedMin))
			}
			return nil
		},
	}
}

func newStatusCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Status(context.Background())
			if err != nil {
				return err
			}
			if out.Current == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no session running")
				return nil
			}
			s := out.Current
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]\n", s.Name, s.State)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "elapsed:   %02d:%02d\n", out.Elapsed.Minutes, out.Elapsed.Seconds)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "remaining: %02d:%02d\n", out.Remaining.Minutes, out.Remaining.Seconds)
			if s.State == "paused" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused:    %02d:%02d", out.PauseTime.Minutes, out.PauseTime.Seconds)
				if s.PauseTargetName != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " -> %s", s.PauseTargetName)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func newLogCmd(dataPath *string) *cobra.Command {
	var all bool
	var limit int
	log := &cobra.Command{
		Use:   "log",
		Short: "Show the activity journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			var entries []journaldto.EntryOutput
			timeLayout := "15:04:05"
			if all {
				entries, err = app.JournalCLI.History(context.Background(), limit)
				timeLayout = "2006-01-02 15:04:05"
			} else {
				entries, err = app.JournalCLI.Log(context.Background())
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no entries")
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s\t%-19s\t%s", e.At.Format(timeLayout), e.Kind, e.Description)
				if e.DurationMin > 0 {
					line += fmt.Sprintf("\t(%s)", timeutil.FormatMinutes(e.DurationMin))
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	log.Flags().BoolVar(&all, "all", false, "read the full history from the database instead of the 24h window")
	log.Flags().IntVar(&limit, "limit", 50, "max entries with --all")
	return log
}

func newStatsCmd(dataPath *string) *cobra.Command {
	var export bool
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show today's totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active:    %s\n", timeutil.FormatMinutes(out.TotalActiveMin))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused:    %s\n", timeutil.FormatMinutes(out.TotalPauseMin))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed: %d\n", out.Completed)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "switches:  %d\n", out.Switches)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pauses:    %d\n", out.Pauses)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "events:    %d\n", out.TotalEvents)
			if export {
				path, err := app.SessionCLI.Export(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written: %s\n", path)
			}
			return nil
		},
	}
	stats.Flags().BoolVar(&export, "export", false, "write today's markdown report")
	return stats
}

func newNotifyCmd(dataPath *string) *cobra.Command {
	notify := &cobra.Command{Use: "notify", Short: "Notifier plugin commands"}

	notify.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured notifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			plugins, err := app.NotifyCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notifiers configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\t%s\n", p.Name, p.Version, p.Enabled, strings.Join(p.Capabilities, ","))
			}
			return nil
		},
	})

	notify.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check notifier binaries, checksums, and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			results, err := app.NotifyCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notifiers configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t\tchecksum=%t\tlifecycle=%t", r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\terror=%s", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})

	var title, body string
	test := &cobra.Command{
		Use:   "test",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.NotifyCLI.Test(context.Background(), title, body); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "notification sent")
			return nil
		},
	}
	test.Flags().StringVar(&title, "title", "myday", "notification title")
	test.Flags().StringVar(&body, "body", "test notification", "notification body")
	notify.AddCommand(test)

	return notify
}
