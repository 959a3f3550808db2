package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"myday/internal/modules/notify/domain"
	"myday/internal/modules/notify/dto"
	notifyout "myday/internal/modules/notify/port/out"
)

type NotifyService struct {
	store notifyout.ManifestStore
	host  notifyout.Host
}

func NewNotifyService(store notifyout.ManifestStore, host notifyout.Host) *NotifyService {
	return &NotifyService{store: store, host: host}
}

func (s *NotifyService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *NotifyService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Notify delivers to every enabled notifier. Delivery is best effort across
// the set: one failing plugin does not stop the others, the first error is
// reported after the fan-out completes.
func (s *NotifyService) Notify(ctx context.Context, input dto.NotifyInput) error {
	message := domain.Message{Title: input.Title, Body: input.Body}
	if err := message.Validate(); err != nil {
		return err
	}
	return s.fanOut(ctx, domain.CapabilityNotify, func(manifest domain.Manifest) error {
		return s.host.Notify(ctx, manifest, message)
	})
}

func (s *NotifyService) ScheduleAlert(ctx context.Context, input dto.AlertInput) error {
	alert := domain.Alert{ID: input.AlertID, Title: input.Title, At: input.At}
	if err := alert.Validate(); err != nil {
		return err
	}
	return s.fanOut(ctx, domain.CapabilitySchedule, func(manifest domain.Manifest) error {
		return s.host.ScheduleAlert(ctx, manifest, alert)
	})
}

func (s *NotifyService) CancelAlert(ctx context.Context, alertID string) error {
	if alertID == "" {
		return fmt.Errorf("alert id is required")
	}
	return s.fanOut(ctx, domain.CapabilitySchedule, func(manifest domain.Manifest) error {
		return s.host.CancelAlert(ctx, manifest, alertID)
	})
}

func (s *NotifyService) fanOut(ctx context.Context, capability domain.Capability, call func(domain.Manifest) error) error {
	if s.host == nil {
		return nil
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return err
	}
	var firstErr error
	for _, manifest := range manifests {
		if !manifest.Enabled || !manifest.HasCapability(capability) {
			continue
		}
		if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := call(manifest); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %s", domain.ErrPluginTimeout, manifest.Name)
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *NotifyService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate notifier name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read notifier binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
