// Package sqlslot keeps session slots in the session_slots table.
package sqlslot

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core/session"
)

type row struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Repository reads and writes slot rows. The schema is created by database.Migrate.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Slot returns the slot stored under key. It satisfies session.SlotFactory.
func (repo *Repository) Slot(key string) session.Slot {
	return slot{repo: repo, key: key}
}

func (repo *Repository) get(ctx context.Context, key string) (string, error) {
	var value string
	q := repo.db.Rebind(`SELECT value FROM session_slots WHERE slot_key = ?`)
	if err := repo.db.GetContext(ctx, &value, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", session.ErrEmptySlot
		}
		return "", errors.Wrapf(err, "selecting slot %q", key)
	}
	return value, nil
}

func (repo *Repository) upsert(ctx context.Context, r row) error {
	q := repo.db.Rebind(`
		INSERT INTO session_slots (slot_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (slot_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := repo.db.ExecContext(ctx, q, r.Key, r.Value, r.UpdatedAt); err != nil {
		return errors.Wrapf(err, "upserting slot %q", r.Key)
	}
	return nil
}

func (repo *Repository) delete(ctx context.Context, key string) error {
	q := repo.db.Rebind(`DELETE FROM session_slots WHERE slot_key = ?`)
	if _, err := repo.db.ExecContext(ctx, q, key); err != nil {
		return errors.Wrapf(err, "deleting slot %q", key)
	}
	return nil
}

// Keys lists the stored slot keys, oldest first.
func (repo *Repository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := repo.db.SelectContext(ctx, &keys, `SELECT slot_key FROM session_slots ORDER BY updated_at, slot_key`); err != nil {
		return nil, errors.Wrap(err, "listing slots")
	}
	return keys, nil
}

type slot struct {
	repo *Repository
	key  string
}

func (s slot) Load(ctx context.Context) ([]byte, error) {
	value, err := s.repo.get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s slot) Save(ctx context.Context, data []byte) error {
	return s.repo.upsert(ctx, row{Key: s.key, Value: string(data), UpdatedAt: time.Now().UTC()})
}

func (s slot) Delete(ctx context.Context) error {
	return s.repo.delete(ctx, s.key)
}
