package cart

import (
	"context"
	"errors"

	"go-storefront/models"
)

// ErrConflict is returned by Put when the stored revision no longer matches
// the one the caller read. The caller should re-read and retry.
var ErrConflict = errors.New("cart revision conflict")

// Store is the key-addressed cart document store.
//
// Get returns (nil, nil) when no cart exists for the key. Put writes the
// whole document guarded by cart.Revision: the write succeeds only if the
// stored revision still equals it (0 means the document must not exist
// yet), and on success the revision is advanced by one, both in the store
// and on the passed cart. Delete is a no-op for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (*models.Cart, error)
	Put(ctx context.Context, key string, cart *models.Cart) error
	Delete(ctx context.Context, key string) error
}
