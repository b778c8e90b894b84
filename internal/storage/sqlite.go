package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	blob       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS saves (
	id         TEXT PRIMARY KEY,
	blob       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteStorage implements the Storage interface on a local SQLite file.
// It suits single-process hosting; sessions do not expire.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Storage = (*SQLiteStorage)(nil)

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted
// for tests.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		clean := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		dsn = clean + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", "error", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) SaveSession(ctx context.Context, id uuid.UUID, blob []byte) error {
	return s.put(ctx, "sessions", id, blob)
}

func (s *SQLiteStorage) LoadSession(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.get(ctx, "sessions", id)
}

// DeleteSession removes the session together with its save slot.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"sessions", "saves"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id.String()); err != nil {
			s.logger.Error("Failed to delete session", "game_state_id", id, "table", table, "error", err)
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) PutSave(ctx context.Context, id uuid.UUID, blob []byte) error {
	return s.put(ctx, "saves", id, blob)
}

func (s *SQLiteStorage) GetSave(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.get(ctx, "saves", id)
}

func (s *SQLiteStorage) put(ctx context.Context, table string, id uuid.UUID, blob []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, blob, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		id.String(), blob, time.Now().UTC().UnixMilli())
	if err != nil {
		s.logger.Error("Failed to write row", "table", table, "game_state_id", id, "error", err)
		return fmt.Errorf("failed to write %s: %w", table, err)
	}
	return nil
}

func (s *SQLiteStorage) get(ctx context.Context, table string, id uuid.UUID) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM `+table+` WHERE id = ?`, id.String()).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to read row", "table", table, "game_state_id", id, "error", err)
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return blob, nil
}
