// Package orders freezes carts into immutable orders and persists them.
package orders

import (
	"context"

	"go-storefront/models"
)

// Repository persists orders. Insert assigns the order id before writing.
type Repository interface {
	Insert(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
}
