// Package redisslot keeps session slots in redis, one string key per slot.
package redisslot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/koperasi/core/session"
)

type Repository struct {
	rdb redis.UniversalClient
	ttl time.Duration // 0 keeps slots forever
}

func NewRepository(rdb redis.UniversalClient, ttl time.Duration) *Repository {
	return &Repository{rdb: rdb, ttl: ttl}
}

// Slot returns the slot stored under key. It satisfies session.SlotFactory.
func (repo *Repository) Slot(key string) session.Slot {
	return slot{repo: repo, key: key}
}

type slot struct {
	repo *Repository
	key  string
}

func (s slot) Load(ctx context.Context) ([]byte, error) {
	data, err := s.repo.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrEmptySlot
		}
		return nil, errors.Wrapf(err, "getting slot %q", s.key)
	}
	return data, nil
}

func (s slot) Save(ctx context.Context, data []byte) error {
	if err := s.repo.rdb.Set(ctx, s.key, data, s.repo.ttl).Err(); err != nil {
		return errors.Wrapf(err, "setting slot %q", s.key)
	}
	return nil
}

func (s slot) Delete(ctx context.Context) error {
	if err := s.repo.rdb.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrapf(err, "deleting slot %q", s.key)
	}
	return nil
}
