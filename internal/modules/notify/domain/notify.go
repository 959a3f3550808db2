package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Capability string

const (
	CapabilityNotify   Capability = "notify"
	CapabilitySchedule Capability = "schedule"
)

var (
	ErrPluginDisabled    = errors.New("notifier plugin is disabled")
	ErrChecksumMismatch  = errors.New("notifier plugin checksum mismatch")
	ErrCapabilityMissing = errors.New("notifier plugin capability missing")
	ErrPluginTimeout     = errors.New("notifier plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("notifier name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("notifier version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("notifier binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("notifier sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("notifier capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityNotify, CapabilitySchedule:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

// Message is an immediate notification, delivered now or not at all.
type Message struct {
	Title string
	Body  string
}

func (m Message) Validate() error {
	if m.Title == "" {
		return fmt.Errorf("notification title is required")
	}
	return nil
}

// Alert is a deferred notification the plugin is responsible for firing at
// the given time. Re-scheduling under the same ID replaces the pending alert.
type Alert struct {
	ID    string
	Title string
	At    time.Time
}

func (a Alert) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("alert id is required")
	}
	if a.Title == "" {
		return fmt.Errorf("alert title is required")
	}
	if a.At.IsZero() {
		return fmt.Errorf("alert time is required")
	}
	return nil
}
