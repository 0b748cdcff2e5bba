package cart

import (
	"context"
	"errors"
	"time"

	"go-storefront/models"
)

// ErrQuantity rejects add requests with a quantity below 1.
var ErrQuantity = errors.New("quantity must be at least 1")

// putRetries bounds the optimistic-write retry loop of a single mutation.
const putRetries = 5

// Snapshot carries the catalog data captured when a cart line is first
// created. Later catalog changes never touch an existing line.
type Snapshot struct {
	Title string
	Price float64
	Image string
}

// Service implements the cart operations on top of a Store. Every mutation
// is a whole-document read-modify-write guarded by the store's revision
// check; on conflict the document is re-read and the mutation re-applied.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a cart Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// GetCart returns the stored cart for the identity, or an empty unsaved
// cart when none exists.
func (s *Service) GetCart(ctx context.Context, id Identity) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, id.Key())
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.emptyCart(id), nil
	}
	return cart, nil
}

func (s *Service) emptyCart(id Identity) *models.Cart {
	cart := &models.Cart{Lines: []models.CartLine{}}
	if id.IsUser() {
		cart.UserID = id.UserID
	} else {
		cart.GuestID = id.Token
	}
	return cart
}

// mutate runs one read-modify-write cycle, retrying on revision conflicts.
// apply reports whether anything changed; an unchanged cart is not written,
// and a cart that never existed is not created for a no-op.
func (s *Service) mutate(ctx context.Context, id Identity, apply func(*models.Cart) bool) error {
	key := id.Key()
	var lastErr error
	for attempt := 0; attempt < putRetries; attempt++ {
		cart, err := s.store.Get(ctx, key)
		if err != nil {
			return err
		}
		created := cart == nil
		if created {
			cart = s.emptyCart(id)
		}
		if !apply(cart) {
			return nil
		}
		now := s.now()
		if created {
			cart.CreatedAt = now
		}
		cart.UpdatedAt = now
		err = s.store.Put(ctx, key, cart)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConflict) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// AddItem puts quantity units of a product in the cart. If a line for the
// product already exists its quantity is incremented; otherwise a new line
// is appended carrying the snapshot. The cart is created on first add.
func (s *Service) AddItem(ctx context.Context, id Identity, productID string, quantity int, snap Snapshot) error {
	if quantity < 1 {
		return ErrQuantity
	}
	return s.mutate(ctx, id, func(cart *models.Cart) bool {
		if line := cart.Line(productID); line != nil {
			line.Quantity += quantity
			return true
		}
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: productID,
			Quantity:  quantity,
			Title:     snap.Title,
			Price:     snap.Price,
			Image:     snap.Image,
		})
		return true
	})
}

// SetQuantity overwrites the quantity of an existing line. A quantity of
// zero or less removes the line. Missing cart or line is a no-op.
func (s *Service) SetQuantity(ctx context.Context, id Identity, productID string, quantity int) error {
	return s.mutate(ctx, id, func(cart *models.Cart) bool {
		for i := range cart.Lines {
			if cart.Lines[i].ProductID != productID {
				continue
			}
			if quantity <= 0 {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			} else {
				cart.Lines[i].Quantity = quantity
			}
			return true
		}
		return false
	})
}

// RemoveItem deletes the line for the product; missing cart or line is a
// no-op.
func (s *Service) RemoveItem(ctx context.Context, id Identity, productID string) error {
	return s.mutate(ctx, id, func(cart *models.Cart) bool {
		kept := make([]models.CartLine, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		if len(kept) == len(cart.Lines) {
			return false
		}
		cart.Lines = kept
		return true
	})
}

// ClearCart deletes the whole cart document; missing carts are a no-op.
func (s *Service) ClearCart(ctx context.Context, id Identity) error {
	return s.store.Delete(ctx, id.Key())
}
