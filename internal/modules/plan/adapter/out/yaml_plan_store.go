package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"myday/internal/modules/plan/domain"
	planout "myday/internal/modules/plan/port/out"
	apperrors "myday/internal/platform/errors"
)

// YAMLPlanStore persists the day plan as a human-editable YAML file. A
// malformed file is reported as ErrInvalidPlan so callers can fall back to
// the first-run default instead of crashing.
type YAMLPlanStore struct {
	path string
}

func NewYAMLPlanStore(path string) planout.PlanStore {
	return &YAMLPlanStore{path: path}
}

type planFile struct {
	SchemaVersion int            `yaml:"schema_version"`
	Blocks        []blockFile    `yaml:"blocks"`
	Activities    []activityFile `yaml:"activities"`
}

type blockFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind,omitempty"`
	DurationMin int    `yaml:"duration_minutes"`
}

type activityFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon,omitempty"`
	Color       string `yaml:"color,omitempty"`
	DurationMin int    `yaml:"duration_minutes"`
	Temporary   bool   `yaml:"temporary,omitempty"`
	BlockID     string `yaml:"block,omitempty"`
}

func (s *YAMLPlanStore) Load(_ context.Context) (domain.Plan, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Plan{}, apperrors.ErrNotFound
		}
		return domain.Plan{}, fmt.Errorf("read plan: %w", err)
	}
	file := planFile{}
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return domain.Plan{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidPlan, err)
	}

	plan := domain.Plan{}
	for _, b := range file.Blocks {
		plan.Blocks = append(plan.Blocks, domain.Block{
			ID:          b.ID,
			Name:        b.Name,
			Kind:        domain.BlockKind(b.Kind),
			DurationMin: b.DurationMin,
		})
	}
	for _, a := range file.Activities {
		plan.Activities = append(plan.Activities, domain.Activity{
			ID:          a.ID,
			Name:        a.Name,
			Icon:        a.Icon,
			Color:       a.Color,
			DurationMin: a.DurationMin,
			Temporary:   a.Temporary,
			BlockID:     a.BlockID,
		})
	}
	if err := plan.Validate(); err != nil {
		return domain.Plan{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidPlan, err)
	}
	return plan, nil
}

func (s *YAMLPlanStore) Save(_ context.Context, plan domain.Plan) error {
	file := planFile{SchemaVersion: domain.SchemaVersion}
	for _, b := range plan.Blocks {
		file.Blocks = append(file.Blocks, blockFile{
			ID:          b.ID,
			Name:        b.Name,
			Kind:        string(b.Kind),
			DurationMin: b.DurationMin,
		})
	}
	for _, a := range plan.Activities {
		file.Activities = append(file.Activities, activityFile{
			ID:          a.ID,
			Name:        a.Name,
			Icon:        a.Icon,
			Color:       a.Color,
			DurationMin: a.DurationMin,
			Temporary:   a.Temporary,
			BlockID:     a.BlockID,
		})
	}
	payload, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create plan dir: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}
