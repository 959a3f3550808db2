package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"myday/internal/modules/notify/domain"
	"myday/internal/modules/notify/dto"
	"myday/internal/modules/notify/service"
)

type fakeManifestStore struct {
	manifests []domain.Manifest
	err       error
}

func (f *fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return f.manifests, f.err
}

type fakeHost struct {
	notified  []string
	scheduled []string
	canceled  []string
	checked   []string
	fail      map[string]error
}

func (f *fakeHost) CheckLifecycle(_ context.Context, m domain.Manifest) error {
	f.checked = append(f.checked, m.Name)
	return f.fail[m.Name]
}

func (f *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Capabilities: m.Capabilities}, nil
}

func (f *fakeHost) Notify(_ context.Context, m domain.Manifest, msg domain.Message) error {
	f.notified = append(f.notified, m.Name+":"+msg.Title)
	return f.fail[m.Name]
}

func (f *fakeHost) ScheduleAlert(_ context.Context, m domain.Manifest, alert domain.Alert) error {
	f.scheduled = append(f.scheduled, m.Name+":"+alert.ID)
	return f.fail[m.Name]
}

func (f *fakeHost) CancelAlert(_ context.Context, m domain.Manifest, alertID string) error {
	f.canceled = append(f.canceled, m.Name+":"+alertID)
	return f.fail[m.Name]
}

// writeBinary drops a dummy plugin binary and returns its path and checksum.
func writeBinary(t *testing.T, dir, name string) (string, string) {
	t.Helper()
	path := filepath.Join(dir, name)
	payload := []byte("#!/bin/sh\necho " + name + "\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256(payload)
	return path, hex.EncodeToString(hash[:])
}

func manifest(name, binary, sum string, enabled bool, caps ...domain.Capability) domain.Manifest {
	return domain.Manifest{
		Name:         name,
		Version:      "1.0.0",
		Binary:       binary,
		SHA256:       sum,
		Enabled:      enabled,
		Capabilities: caps,
	}
}

func TestNotifyFansOutToEnabledCapablePlugins(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	aBin, aSum := writeBinary(t, dir, "alpha")
	bBin, bSum := writeBinary(t, dir, "beta")
	cBin, cSum := writeBinary(t, dir, "gamma")

	host := &fakeHost{}
	svc := service.NewNotifyService(&fakeManifestStore{manifests: []domain.Manifest{
		manifest("alpha", aBin, aSum, true, domain.CapabilityNotify),
		manifest("beta", bBin, bSum, false, domain.CapabilityNotify),
		manifest("gamma", cBin, cSum, true, domain.CapabilitySchedule),
	}}, host)

	if err := svc.Notify(context.Background(), dto.NotifyInput{Title: "done"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(host.notified) != 1 || host.notified[0] != "alpha:done" {
		t.Fatalf("only the enabled notify-capable plugin may receive the message, got %v", host.notified)
	}
}

func TestNotifyRequiresATitle(t *testing.T) {
	t.Parallel()
	svc := service.NewNotifyService(&fakeManifestStore{}, &fakeHost{})

	if err := svc.Notify(context.Background(), dto.NotifyInput{Body: "no title"}); err == nil {
		t.Fatalf("empty title must be rejected")
	}
}

func TestFanOutGatesOnChecksum(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, _ := writeBinary(t, dir, "tampered")

	host := &fakeHost{}
	svc := service.NewNotifyService(&fakeManifestStore{manifests: []domain.Manifest{
		manifest("tampered", bin, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true, domain.CapabilityNotify),
	}}, host)

	err := svc.Notify(context.Background(), dto.NotifyInput{Title: "done"})
	if !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
	if len(host.notified) != 0 {
		t.Fatalf("a tampered binary must never be called, got %v", host.notified)
	}
}

func TestFanOutReportsFirstErrorAfterCompleting(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	aBin, aSum := writeBinary(t, dir, "alpha")
	bBin, bSum := writeBinary(t, dir, "beta")

	boom := errors.New("delivery failed")
	host := &fakeHost{fail: map[string]error{"alpha": boom}}
	svc := service.NewNotifyService(&fakeManifestStore{manifests: []domain.Manifest{
		manifest("alpha", aBin, aSum, true, domain.CapabilityNotify),
		manifest("beta", bBin, bSum, true, domain.CapabilityNotify),
	}}, host)

	err := svc.Notify(context.Background(), dto.NotifyInput{Title: "done"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the first delivery error, got %v", err)
	}
	if len(host.notified) != 2 {
		t.Fatalf("one failure must not stop the fan-out, got %v", host.notified)
	}
}

func TestFanOutMapsDeadlineToPluginTimeout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, sum := writeBinary(t, dir, "slow")

	host := &fakeHost{fail: map[string]error{"slow": context.DeadlineExceeded}}
	svc := service.NewNotifyService(&fakeManifestStore{manifests: []domain.Manifest{
		manifest("slow", bin, sum, true, domain.CapabilitySchedule),
	}}, host)

	err := svc.ScheduleAlert(context.Background(), dto.AlertInput{
		AlertID: "block_end_deep-work",
		Title:   "Deep Work",
		At:      time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrPluginTimeout) {
		t.Fatalf("expected ErrPluginTimeout, got %v", err)
	}
}

func TestCancelAlertReachesSchedulers(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, sum := writeBinary(t, dir, "sched")

	host := &fakeHost{}
	svc := service.NewNotifyService(&fakeManifestStore{manifests: []domain.Manifest{
		manifest("sched", bin, sum, true, domain.CapabilitySchedule, domain.CapabilityNotify),
	}}, host)

	if err := svc.CancelAlert(context.Background(), "block_end_deep-work"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(host.canceled) != 1 || host.canceled[0] != "sched:block_end_deep-work" {
		t.Fatalf("cancel must reach the scheduler, got %v", host.canceled)
	}
	if err := svc.CancelAlert(context.Background(), ""); err == nil {
		t.Fatalf("empty alert id must be rejected")
	}
}

func TestListRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, sum := writeBinary(t, dir, "twin")

	svc := service.NewNotifyService(&fakeManifestStore{manifests: []domain.Manifest{
		manifest("twin", bin, sum, true, domain.CapabilityNotify),
		manifest("twin", bin, sum, true, domain.CapabilitySchedule),
	}}, &fakeHost{})

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("duplicate notifier names must be rejected")
	}
}

func TestDoctorReportsPerPluginHealth(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	goodBin, goodSum := writeBinary(t, dir, "good")
	staleBin, _ := writeBinary(t, dir, "stale")

	host := &fakeHost{}
	svc := service.NewNotifyService(&fakeManifestStore{manifests: []domain.Manifest{
		manifest("good", goodBin, goodSum, true, domain.CapabilityNotify),
		manifest("stale", staleBin, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", true, domain.CapabilityNotify),
		manifest("gone", filepath.Join(dir, "missing"), goodSum, true, domain.CapabilityNotify),
		{Name: "broken"},
	}}, host)

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("every manifest gets a verdict, got %d", len(results))
	}
	byName := map[string]dto.DoctorResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if r := byName["good"]; !r.BinaryReachable || !r.ChecksumValid || !r.LifecycleOK || r.Error != "" {
		t.Fatalf("healthy plugin must pass all checks, got %+v", r)
	}
	if r := byName["stale"]; !r.BinaryReachable || r.ChecksumValid || r.Error == "" {
		t.Fatalf("stale checksum must be flagged, got %+v", r)
	}
	if r := byName["gone"]; r.BinaryReachable || r.Error == "" {
		t.Fatalf("missing binary must be flagged, got %+v", r)
	}
	if r := byName["broken"]; r.Error == "" {
		t.Fatalf("invalid manifest must carry its validation error, got %+v", r)
	}
	if len(host.checked) != 1 || host.checked[0] != "good" {
		t.Fatalf("only healthy enabled plugins get a lifecycle probe, got %v", host.checked)
	}
}
