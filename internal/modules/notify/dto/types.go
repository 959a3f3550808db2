package dto

import "time"

type PluginInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Error           string
}

type NotifyInput struct {
	Title string
	Body  string
}

type AlertInput struct {
	AlertID string
	Title   string
	At      time.Time
}
