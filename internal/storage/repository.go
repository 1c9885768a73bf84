package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ports "budget/internal/sheets"

	_ "modernc.org/sqlite"
)

var (
	_ ports.SlotStore     = (*SQLiteRepository)(nil)
	_ ports.SlotInspector = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements sheets.SlotReader
func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	slot, err := r.queries.GetSlot(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get slot %s: %w", key, err)
	}
	return slot.Value, nil
}

// Set implements sheets.SlotWriter
func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	if err := r.queries.UpsertSlot(ctx, UpsertSlotParams{Key: key, Value: value}); err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	slog.DebugContext(ctx, "Slot saved to SQLite", "key", key, "bytes", len(value))
	return nil
}

// Keys returns the names of all stored slots, sorted.
func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.queries.ListSlotKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slot keys: %w", err)
	}
	return keys, nil
}

// Ping verifies the database connection is usable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
