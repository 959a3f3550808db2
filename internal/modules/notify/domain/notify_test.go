package domain_test

import (
	"strings"
	"testing"
	"time"

	"myday/internal/modules/notify/domain"
)

func validManifest() domain.Manifest {
	return domain.Manifest{
		Name:         "desknotify",
		Version:      "1.0.0",
		Binary:       "/opt/myday/desknotify",
		SHA256:       strings.Repeat("ab", 32),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityNotify, domain.CapabilitySchedule},
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	if err := validManifest().Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Manifest)
	}{
		{"missing name", func(m *domain.Manifest) { m.Name = "" }},
		{"missing version", func(m *domain.Manifest) { m.Version = "" }},
		{"missing binary", func(m *domain.Manifest) { m.Binary = "" }},
		{"uppercase checksum", func(m *domain.Manifest) { m.SHA256 = strings.ToUpper(m.SHA256) }},
		{"short checksum", func(m *domain.Manifest) { m.SHA256 = "abc123" }},
		{"no capabilities", func(m *domain.Manifest) { m.Capabilities = nil }},
		{"unknown capability", func(m *domain.Manifest) { m.Capabilities = []domain.Capability{"teleport"} }},
		{"duplicate capability", func(m *domain.Manifest) {
			m.Capabilities = []domain.Capability{domain.CapabilityNotify, domain.CapabilityNotify}
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := validManifest()
			tc.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Fatalf("expected validation failure")
			}
		})
	}
}

func TestHasCapability(t *testing.T) {
	t.Parallel()
	m := domain.Manifest{Capabilities: []domain.Capability{domain.CapabilityNotify}}
	if !m.HasCapability(domain.CapabilityNotify) {
		t.Fatalf("declared capability must be found")
	}
	if m.HasCapability(domain.CapabilitySchedule) {
		t.Fatalf("undeclared capability must not be found")
	}
}

func TestAlertValidate(t *testing.T) {
	t.Parallel()
	alert := domain.Alert{ID: "block_end_deep-work", Title: "Deep Work", At: time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)}
	if err := alert.Validate(); err != nil {
		t.Fatalf("valid alert rejected: %v", err)
	}
	if err := (domain.Alert{Title: "x", At: alert.At}).Validate(); err == nil {
		t.Fatalf("missing id must be rejected")
	}
	if err := (domain.Alert{ID: "x", At: alert.At}).Validate(); err == nil {
		t.Fatalf("missing title must be rejected")
	}
	if err := (domain.Alert{ID: "x", Title: "x"}).Validate(); err == nil {
		t.Fatalf("zero time must be rejected")
	}
}
