package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

// MemRepository is an in-memory Repository for tests.
type MemRepository struct {
	mu     sync.Mutex
	orders map[string]models.Order

	// InsertErr, when set, makes every Insert fail. Tests use it to
	// simulate a storage outage during order placement.
	InsertErr error
}

// NewMemRepository returns an empty in-memory order repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{orders: make(map[string]models.Order)}
}

func copyOrder(o models.Order) models.Order {
	out := o
	out.Items = make([]models.OrderLine, len(o.Items))
	copy(out.Items, o.Items)
	return out
}

// Insert stores a copy of the order, assigning its id.
func (r *MemRepository) Insert(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InsertErr != nil {
		return r.InsertErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID.Hex()] = copyOrder(*order)
	return nil
}

// Get fetches one order by id.
func (r *MemRepository) Get(ctx context.Context, orderID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := copyOrder(stored)
	return &out, nil
}

// ListByUser returns the user's orders, newest first.
func (r *MemRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateStatus sets a new fulfillment status.
func (r *MemRepository) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	r.orders[orderID] = stored
	return nil
}
