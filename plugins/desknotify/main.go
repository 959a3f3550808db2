package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	notifyrpc "myday/internal/modules/notify/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// desknotify is the reference notifier: immediate notifications append to a
// log file and scheduled alerts live in a JSON spool next to it. Spooled
// alerts that have come due are flushed to the log on every call, so the
// host's regular traffic doubles as the delivery tick.
type server struct {
	dir string
}

type spooledAlert struct {
	AlertID string `json:"alert_id"`
	Title   string `json:"title"`
	AtUnix  int64  `json:"at_unix"`
}

func (s *server) GetMetadata(_ context.Context, _ *notifyrpc.Empty) (*notifyrpc.Metadata, error) {
	return &notifyrpc.Metadata{
		Name:         "desknotify",
		Version:      "1.0.0",
		Capabilities: []string{"notify", "schedule"},
	}, nil
}

func (s *server) Notify(_ context.Context, in *notifyrpc.NotifyRequest) (*notifyrpc.Empty, error) {
	s.flushDue()
	if err := s.appendLog(in.Title, in.Body); err != nil {
		return nil, err
	}
	return &notifyrpc.Empty{}, nil
}

func (s *server) ScheduleAlert(_ context.Context, in *notifyrpc.ScheduleAlertRequest) (*notifyrpc.Empty, error) {
	s.flushDue()
	alerts, err := s.loadSpool()
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range alerts {
		if alerts[i].AlertID == in.AlertID {
			alerts[i] = spooledAlert{AlertID: in.AlertID, Title: in.Title, AtUnix: in.AtUnix}
			replaced = true
			break
		}
	}
	if !replaced {
		alerts = append(alerts, spooledAlert{AlertID: in.AlertID, Title: in.Title, AtUnix: in.AtUnix})
	}
	if err := s.saveSpool(alerts); err != nil {
		return nil, err
	}
	return &notifyrpc.Empty{}, nil
}

func (s *server) CancelAlert(_ context.Context, in *notifyrpc.CancelAlertRequest) (*notifyrpc.Empty, error) {
	alerts, err := s.loadSpool()
	if err != nil {
		return nil, err
	}
	kept := alerts[:0]
	for _, alert := range alerts {
		if alert.AlertID != in.AlertID {
			kept = append(kept, alert)
		}
	}
	if err := s.saveSpool(kept); err != nil {
		return nil, err
	}
	return &notifyrpc.Empty{}, nil
}

func (s *server) flushDue() {
	alerts, err := s.loadSpool()
	if err != nil {
		return
	}
	now := time.Now().Unix()
	kept := alerts[:0]
	for _, alert := range alerts {
		if alert.AtUnix <= now {
			_ = s.appendLog("Time block complete", alert.Title)
			continue
		}
		kept = append(kept, alert)
	}
	_ = s.saveSpool(kept)
}

func (s *server) appendLog(title, body string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.dir, "notifications.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s\t%s\t%s\n", time.Now().Format(time.RFC3339), title, body)
	return err
}

func (s *server) loadSpool() ([]spooledAlert, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, "alerts.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return []spooledAlert{}, nil
		}
		return nil, err
	}
	var alerts []spooledAlert
	if err := json.Unmarshal(payload, &alerts); err != nil {
		return []spooledAlert{}, nil
	}
	return alerts, nil
}

func (s *server) saveSpool(alerts []spooledAlert) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, "alerts.json"), payload, 0o644)
}

func main() {
	dir := os.Getenv("MYDAY_NOTIFY_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".myday", "desknotify")
	}
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: notifyrpc.HandshakeConfig,
		Plugins:         notifyrpc.PluginMap(&server{dir: dir}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
