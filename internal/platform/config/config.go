package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	DataPath   string
	PlanPath   string
	StatePath  string
	DBPath     string
	PluginPath string
	ReportPath string
}

func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	return Config{
		DataPath:   dataPath,
		PlanPath:   filepath.Join(dataPath, "plan.yaml"),
		StatePath:  filepath.Join(dataPath, ".myday", "state.json"),
		DBPath:     filepath.Join(dataPath, ".myday", "myday.db"),
		PluginPath: filepath.Join(dataPath, ".myday", "plugins"),
		ReportPath: filepath.Join(dataPath, "reports"),
	}, nil
}
