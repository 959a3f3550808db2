package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"myday/internal/modules/session/domain"
	sessionout "myday/internal/modules/session/port/out"
	apperrors "myday/internal/platform/errors"
)

// FileStateStore keeps the whole day snapshot in one JSON file. A corrupt
// file is reported as invalid state so the caller can start a fresh day
// instead of crashing on yesterday's leftovers.
type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) sessionout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Save(_ context.Context, snapshot domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (s *FileStateStore) Load(_ context.Context) (domain.Snapshot, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, apperrors.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("read state: %w", err)
	}
	snapshot := domain.Snapshot{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: decode state: %v", apperrors.ErrInvalidState, err)
	}
	for _, session := range snapshot.Sessions {
		if session.ActivityID == "" || !session.Consistent() {
			return domain.Snapshot{}, fmt.Errorf("%w: session %q", apperrors.ErrInvalidState, session.ActivityID)
		}
	}
	return snapshot, nil
}
