package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwise1/viff_planner/internal/db"
	"github.com/jackc/pgx/v5"
)

const createTableStmt = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const upsertStmt = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
	    updated_at = NOW()
`

const deleteStmt = `DELETE FROM kv_store WHERE key = $1`

// Postgres keeps keys in a single kv_store table.
type Postgres struct {
	db db.Querier
}

func NewPostgres(q db.Querier) *Postgres {
	return &Postgres{db: q}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createTableStmt); err != nil {
		return fmt.Errorf("creating kv_store table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var value string
	err := p.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting key %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := p.db.Exec(ctx, upsertStmt, key, value); err != nil {
		return fmt.Errorf("setting key %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := p.db.Exec(ctx, deleteStmt, key); err != nil {
		return fmt.Errorf("removing key %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Apply(ctx context.Context, ops ...Op) error {
	if err := validateOps(ops); err != nil {
		return err
	}
	return db.RunInTx(ctx, p.db, func(tx pgx.Tx) error {
		for _, op := range ops {
			var err error
			if op.Delete {
				_, err = tx.Exec(ctx, deleteStmt, op.Key)
			} else {
				_, err = tx.Exec(ctx, upsertStmt, op.Key, op.Value)
			}
			if err != nil {
				return fmt.Errorf("applying %s: %w", op.Key, err)
			}
		}
		return nil
	})
}

// Close is a no-op; the pool is owned by whoever created it.
func (p *Postgres) Close() error {
	return nil
}
