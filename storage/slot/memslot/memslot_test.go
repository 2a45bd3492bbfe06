package memslot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/koperasi/core/session"
)

func TestSlot(t *testing.T) {
	ctx := context.Background()
	store := New()
	a, b := store.Slot("user:a"), store.Slot("user:b")

	_, err := a.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)

	require.NoError(t, a.Save(ctx, []byte(`{"id":"1"}`)))
	data, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(data))

	data[0] = 'x' // callers cannot mutate the stored record
	data, _ = store.Slot("user:a").Load(ctx)
	assert.Equal(t, `{"id":"1"}`, string(data))

	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)

	require.NoError(t, a.Delete(ctx))
	require.NoError(t, a.Delete(ctx))
	_, err = a.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)
	assert.Equal(t, 0, store.Len())
}
