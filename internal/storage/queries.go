package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Slot struct {
	Key   string
	Value string
}

const getSlot = `-- name: GetSlot :one
SELECT key, value FROM slots WHERE key = ?
`

func (q *Queries) GetSlot(ctx context.Context, key string) (Slot, error) {
	row := q.db.QueryRowContext(ctx, getSlot, key)
	var s Slot
	err := row.Scan(&s.Key, &s.Value)
	return s, err
}

const upsertSlot = `-- name: UpsertSlot :exec
INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

type UpsertSlotParams struct {
	Key   string
	Value string
}

func (q *Queries) UpsertSlot(ctx context.Context, arg UpsertSlotParams) error {
	_, err := q.db.ExecContext(ctx, upsertSlot, arg.Key, arg.Value)
	return err
}

const listSlotKeys = `-- name: ListSlotKeys :many
SELECT key FROM slots ORDER BY key
`

func (q *Queries) ListSlotKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listSlotKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
