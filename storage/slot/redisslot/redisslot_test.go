package redisslot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/koperasi/core/session"
)

func newRepository(t *testing.T, ttl time.Duration) (*Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRepository(rdb, ttl), mr
}

func TestSlot(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRepository(t, 0)
	sl := repo.Slot("user:abc")

	_, err := sl.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)

	require.NoError(t, sl.Save(ctx, []byte(`{"id":"2"}`)))
	data, err := sl.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2"}`, string(data))

	stored, err := mr.Get("user:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2"}`, stored)
	assert.Zero(t, mr.TTL("user:abc"))

	require.NoError(t, sl.Delete(ctx))
	require.NoError(t, sl.Delete(ctx))
	_, err = sl.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)
}

func TestSlot_ttl(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRepository(t, time.Hour)
	sl := repo.Slot("user")

	require.NoError(t, sl.Save(ctx, []byte(`{}`)))
	assert.Equal(t, time.Hour, mr.TTL("user"))

	mr.FastForward(2 * time.Hour)
	_, err := sl.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)
}

func TestSlot_unavailable(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRepository(t, 0)
	mr.Close()

	_, err := repo.Slot("user").Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrEmptySlot)
}
