package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineQuantities(t *testing.T, svc *Service, id Identity) map[string]int {
	t.Helper()
	got, err := svc.GetCart(context.Background(), id)
	require.NoError(t, err)
	out := make(map[string]int, len(got.Lines))
	for _, line := range got.Lines {
		out[line.ProductID] = line.Quantity
	}
	return out
}

func TestMergeAggregatesIntoUserCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	svc := NewService(store)
	guest := GuestIdentity("tok")
	user := UserIdentity("u1")

	// Guest cart {A:2, B:1}, user cart {A:1, C:5}.
	require.NoError(t, svc.AddItem(ctx, guest, "A", 2, mugSnap))
	require.NoError(t, svc.AddItem(ctx, guest, "B", 1, mugSnap))
	require.NoError(t, svc.AddItem(ctx, user, "A", 1, mugSnap))
	require.NoError(t, svc.AddItem(ctx, user, "C", 5, mugSnap))

	require.NoError(t, svc.MergeGuestCart(ctx, "u1", "tok"))

	assert.Equal(t, map[string]int{"A": 3, "B": 1, "C": 5}, lineQuantities(t, svc, user))

	// The guest cart is gone.
	guestCart, err := store.Get(ctx, guest.Key())
	require.NoError(t, err)
	assert.Nil(t, guestCart)
}

func TestMergeCreatesUserCartVerbatim(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	svc := NewService(store)
	guest := GuestIdentity("tok")

	require.NoError(t, svc.AddItem(ctx, guest, "A", 2, mugSnap))
	require.NoError(t, svc.MergeGuestCart(ctx, "u1", "tok"))

	user := UserIdentity("u1")
	got, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "A", got.Lines[0].ProductID)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, "Ceramic Mug", got.Lines[0].Title)
	assert.Equal(t, "u1", got.UserID)
	assert.Empty(t, got.GuestID)
	assert.False(t, got.CreatedAt.IsZero())

	guestCart, err := store.Get(ctx, guest.Key())
	require.NoError(t, err)
	assert.Nil(t, guestCart)
}

func TestMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemStore())
	guest := GuestIdentity("tok")
	user := UserIdentity("u1")

	require.NoError(t, svc.AddItem(ctx, guest, "A", 2, mugSnap))

	require.NoError(t, svc.MergeGuestCart(ctx, "u1", "tok"))
	after := lineQuantities(t, svc, user)

	// A retried login replays the merge; the guest cart no longer exists,
	// so nothing changes.
	require.NoError(t, svc.MergeGuestCart(ctx, "u1", "tok"))
	assert.Equal(t, after, lineQuantities(t, svc, user))
}

func TestMergeNoops(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	svc := NewService(store)

	t.Run("empty token", func(t *testing.T) {
		require.NoError(t, svc.MergeGuestCart(ctx, "u1", ""))
		assert.Equal(t, 0, store.Len())
	})

	t.Run("no guest cart", func(t *testing.T) {
		require.NoError(t, svc.MergeGuestCart(ctx, "u1", "never-used"))
		assert.Equal(t, 0, store.Len())
	})
}

func TestMergeWritesUserCartBeforeGuestDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	svc := NewService(store)
	guest := GuestIdentity("tok")
	user := UserIdentity("u1")

	require.NoError(t, svc.AddItem(ctx, guest, "A", 2, mugSnap))

	boom := errors.New("connection reset")
	store.DeleteErr = boom
	assert.ErrorIs(t, svc.MergeGuestCart(ctx, "u1", "tok"), boom)
	store.DeleteErr = nil

	// The user cart was written before the failed delete, so the shopper
	// keeps their items either way.
	assert.Equal(t, map[string]int{"A": 2}, lineQuantities(t, svc, user))
	guestCart, err := store.Get(ctx, guest.Key())
	require.NoError(t, err)
	assert.NotNil(t, guestCart)
}

func TestMergeRetriesUserWriteOnConflict(t *testing.T) {
	ctx := context.Background()
	base := NewMemStore()
	store := &conflictStore{MemStore: base, conflicts: 0}
	svc := NewService(store)
	guest := GuestIdentity("tok")
	user := UserIdentity("u1")

	require.NoError(t, svc.AddItem(ctx, guest, "A", 2, mugSnap))
	require.NoError(t, svc.AddItem(ctx, user, "A", 1, mugSnap))

	store.conflicts = 2
	require.NoError(t, svc.MergeGuestCart(ctx, "u1", "tok"))
	assert.Equal(t, map[string]int{"A": 3}, lineQuantities(t, svc, user))
}
