package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"myday/internal/modules/journal/domain"
	journalout "myday/internal/modules/journal/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryStore projects every journal entry into sqlite so history
// survives the in-memory 24h prune. It is write-mostly; reads serve the
// `log --all` surface only.
type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(dbPath string) (journalout.HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteHistoryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteHistoryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS journal_entries (
  id TEXT PRIMARY KEY,
  at TEXT NOT NULL,
  kind TEXT NOT NULL,
  description TEXT NOT NULL,
  remaining_minutes INTEGER NOT NULL,
  duration_minutes INTEGER NOT NULL,
  blocks_json TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Append(ctx context.Context, entry domain.Entry) error {
	blocks, err := json.Marshal(entry.Blocks)
	if err != nil {
		return fmt.Errorf("marshal block snapshot: %w", err)
	}
	const stmt = `
INSERT INTO journal_entries (id, at, kind, description, remaining_minutes, duration_minutes, blocks_json)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING;
`
	_, err = s.db.ExecContext(ctx, stmt,
		entry.ID,
		entry.At.Format(time.RFC3339),
		string(entry.Kind),
		entry.Description,
		entry.RemainingMin,
		entry.DurationMin,
		string(blocks),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Tail(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT id, at, kind, description, remaining_minutes, duration_minutes, blocks_json
FROM journal_entries ORDER BY at DESC LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Entry, 0, limit)
	for rows.Next() {
		var (
			entry  domain.Entry
			at     string
			kind   string
			blocks sql.NullString
		)
		if err := rows.Scan(&entry.ID, &at, &kind, &entry.Description, &entry.RemainingMin, &entry.DurationMin, &blocks); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("parse entry timestamp: %w", err)
		}
		entry.At = parsed
		entry.Kind = domain.Kind(kind)
		if blocks.Valid && blocks.String != "" {
			if err := json.Unmarshal([]byte(blocks.String), &entry.Blocks); err != nil {
				return nil, fmt.Errorf("decode block snapshot: %w", err)
			}
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
