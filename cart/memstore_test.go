package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/models"
)

func TestMemStoreRevisionGuard(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	t.Run("missing key reads as nil", func(t *testing.T) {
		cart, err := store.Get(ctx, "guest_missing")
		require.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("insert requires revision zero", func(t *testing.T) {
		cart := &models.Cart{GuestID: "t", Revision: 3}
		assert.ErrorIs(t, store.Put(ctx, "guest_t", cart), ErrConflict)
	})

	t.Run("put advances the revision", func(t *testing.T) {
		cart := &models.Cart{GuestID: "t"}
		require.NoError(t, store.Put(ctx, "guest_t", cart))
		assert.Equal(t, int64(1), cart.Revision)

		require.NoError(t, store.Put(ctx, "guest_t", cart))
		assert.Equal(t, int64(2), cart.Revision)
	})

	t.Run("stale revision conflicts", func(t *testing.T) {
		stale := &models.Cart{GuestID: "t", Revision: 1}
		assert.ErrorIs(t, store.Put(ctx, "guest_t", stale), ErrConflict)
	})

	t.Run("double insert conflicts", func(t *testing.T) {
		again := &models.Cart{GuestID: "t", Revision: 0}
		assert.ErrorIs(t, store.Put(ctx, "guest_t", again), ErrConflict)
	})

	t.Run("get returns an independent copy", func(t *testing.T) {
		cart := &models.Cart{GuestID: "c", Lines: []models.CartLine{{ProductID: "p1", Quantity: 1}}}
		require.NoError(t, store.Put(ctx, "guest_c", cart))

		read, err := store.Get(ctx, "guest_c")
		require.NoError(t, err)
		read.Lines[0].Quantity = 99

		fresh, err := store.Get(ctx, "guest_c")
		require.NoError(t, err)
		assert.Equal(t, 1, fresh.Lines[0].Quantity)
	})

	t.Run("delete is a no-op for missing keys", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "guest_nothing"))
	})
}
