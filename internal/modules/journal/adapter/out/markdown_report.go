package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"myday/internal/modules/journal/domain"
	journalout "myday/internal/modules/journal/port/out"
	"myday/internal/platform/markdown"
	"myday/internal/platform/timeutil"
)

// MarkdownReportStore writes the daily summary as a markdown note with YAML
// frontmatter, one file per calendar day.
type MarkdownReportStore struct {
	dir string
}

func NewMarkdownReportStore(dir string) journalout.ReportStore {
	return &MarkdownReportStore{dir: dir}
}

func (s *MarkdownReportStore) WriteDaily(_ context.Context, report domain.DailyReport) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(s.dir, report.Date.Format("2006-01-02")+".md")

	meta := map[string]any{
		"schema_version":       domain.SchemaVersion,
		"date":                 report.Date.Format("2006-01-02"),
		"completed_tasks":      report.Counts.Completed,
		"switch_count":         report.Counts.Switches,
		"pause_count":          report.Counts.Pauses,
		"total_events":         report.Counts.Total,
		"total_active_minutes": report.TotalActiveMin,
		"total_pause_minutes":  report.TotalPauseMin,
	}

	body := strings.Builder{}
	body.WriteString(fmt.Sprintf("# Daily report %s\n\n", report.Date.Format("2006-01-02")))
	body.WriteString(fmt.Sprintf("- Active: %s\n- Paused: %s\n- Completed: %d\n- Switches: %d\n\n",
		timeutil.FormatMinutes(report.TotalActiveMin),
		timeutil.FormatMinutes(report.TotalPauseMin),
		report.Counts.Completed,
		report.Counts.Switches,
	))
	if len(report.Blocks) > 0 {
		body.WriteString("## Blocks\n\n")
		for _, b := range report.Blocks {
			body.WriteString(fmt.Sprintf("- %s: %s remaining (%.0f%%)\n", b.Name, timeutil.FormatMinutes(b.RemainingMin), b.ProgressPct))
		}
		body.WriteString("\n")
	}
	if len(report.Entries) > 0 {
		body.WriteString("## Timeline\n\n")
		for _, e := range report.Entries {
			body.WriteString(fmt.Sprintf("- %s %s %s\n", e.At.Format("15:04"), e.Kind, e.Description))
		}
	}

	rendered, err := markdown.RenderFrontmatter(meta, body.String())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write daily report: %w", err)
	}
	return path, nil
}
