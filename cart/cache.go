package cart

import (
	"context"
	"sync"

	"go-storefront/models"
)

// Cache is a per-session mirror of one shopper's cart. Mutations routed
// through it hit the Service first; on success the cart is re-fetched and
// subscribers are signalled. The mirror is advisory only — observers react
// to the signal by reading Current, never by trusting a payload.
type Cache struct {
	svc      *Service
	identity Identity

	mu   sync.RWMutex
	cart *models.Cart

	subMu sync.Mutex
	subs  map[int]chan struct{}
	next  int
}

// NewCache creates a cache bound to one identity.
func NewCache(svc *Service, identity Identity) *Cache {
	return &Cache{
		svc:      svc,
		identity: identity,
		subs:     make(map[int]chan struct{}),
	}
}

// Subscribe registers a cart-changed listener and returns its channel plus
// a cancel func. Signals are best-effort: a subscriber that has not drained
// its channel does not block mutations.
func (c *Cache) Subscribe() (<-chan struct{}, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.next
	c.next++
	ch := make(chan struct{}, 1)
	c.subs[id] = ch
	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
	return ch, cancel
}

func (c *Cache) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Refresh re-reads the cart from the service and signals subscribers.
func (c *Cache) Refresh(ctx context.Context) error {
	cart, err := c.svc.GetCart(ctx, c.identity)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cart = cart
	c.mu.Unlock()
	c.notify()
	return nil
}

// Current returns the mirrored cart from the last refresh, or nil before
// the first one.
func (c *Cache) Current() *models.Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart
}

// Count returns the total quantity across mirrored lines.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cart == nil {
		return 0
	}
	total := 0
	for _, line := range c.cart.Lines {
		total += line.Quantity
	}
	return total
}

// Subtotal returns the price sum across mirrored lines.
func (c *Cache) Subtotal() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cart == nil {
		return 0
	}
	total := 0.0
	for _, line := range c.cart.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// AddItem mutates through the service, then refreshes and notifies.
func (c *Cache) AddItem(ctx context.Context, productID string, quantity int, snap Snapshot) error {
	if err := c.svc.AddItem(ctx, c.identity, productID, quantity, snap); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// SetQuantity mutates through the service, then refreshes and notifies.
func (c *Cache) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if err := c.svc.SetQuantity(ctx, c.identity, productID, quantity); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// RemoveItem mutates through the service, then refreshes and notifies.
func (c *Cache) RemoveItem(ctx context.Context, productID string) error {
	if err := c.svc.RemoveItem(ctx, c.identity, productID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// ClearCart mutates through the service, then refreshes and notifies.
func (c *Cache) ClearCart(ctx context.Context) error {
	if err := c.svc.ClearCart(ctx, c.identity); err != nil {
		return err
	}
	return c.Refresh(ctx)
}
