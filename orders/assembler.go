package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-storefront/cart"
	"go-storefront/models"
)

const (
	// FreeDeliveryThreshold is the subtotal at or above which delivery
	// is free.
	FreeDeliveryThreshold = 5000.0
	// FlatDeliveryFee applies to orders below the threshold.
	FlatDeliveryFee = 200.0
)

// DefaultPostalCode stands in when the checkout form omits one.
const DefaultPostalCode = "000"

var (
	// ErrAuthRequired rejects checkout for anyone not signed in.
	ErrAuthRequired = errors.New("checkout requires a signed-in user")
	// ErrEmptyCart rejects checkout when there is nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
)

// CheckoutForm is the contact and shipping information collected at
// checkout.
type CheckoutForm struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Notes         string `json:"notes,omitempty"`
}

// Validate checks the required contact fields. The postal code is the one
// deliberate leniency: a missing value is defaulted, not rejected.
func (f CheckoutForm) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"customer name", f.CustomerName},
		{"customer email", f.CustomerEmail},
		{"customer phone", f.CustomerPhone},
		{"address", f.Address},
		{"city", f.City},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	return nil
}

// Assembler freezes a cart plus a checkout form into an order and persists
// it. Carts are only cleared once the order write has succeeded.
type Assembler struct {
	repo  Repository
	carts *cart.Service
	now   func() time.Time
}

// NewAssembler creates an Assembler over the order repository and the cart
// service.
func NewAssembler(repo Repository, carts *cart.Service) *Assembler {
	return &Assembler{repo: repo, carts: carts, now: time.Now}
}

// Assemble computes totals and freezes cart lines into an order value. It
// does not persist anything.
func Assemble(userID string, c *models.Cart, form CheckoutForm, now time.Time) *models.Order {
	items := make([]models.OrderLine, 0, len(c.Lines))
	subtotal := 0.0
	for _, line := range c.Lines {
		items = append(items, models.OrderLine{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
		subtotal += line.Price * float64(line.Quantity)
	}

	deliveryFee := FlatDeliveryFee
	if subtotal >= FreeDeliveryThreshold {
		deliveryFee = 0
	}

	postalCode := strings.TrimSpace(form.PostalCode)
	if postalCode == "" {
		postalCode = DefaultPostalCode
	}

	return &models.Order{
		UserID:        userID,
		CustomerName:  form.CustomerName,
		CustomerEmail: form.CustomerEmail,
		CustomerPhone: form.CustomerPhone,
		ShippingAddress: models.ShippingAddress{
			Address:    form.Address,
			City:       form.City,
			PostalCode: postalCode,
		},
		Notes:         form.Notes,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		TotalAmount:   subtotal + deliveryFee,
		Status:        models.OrderPending,
		PaymentMethod: models.PaymentCashOnDelivery,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// PlaceOrder freezes the identity's current cart into an order. A failed
// order write leaves the cart untouched so the shopper can retry; a failed
// cart clear after a successful write is reported together with the placed
// order, and is safe to retry since clearing is idempotent.
func (a *Assembler) PlaceOrder(ctx context.Context, id cart.Identity, form CheckoutForm) (*models.Order, error) {
	if !id.IsUser() {
		return nil, ErrAuthRequired
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	current, err := a.carts.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(current.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := Assemble(id.UserID, current, form, a.now())
	if err := a.repo.Insert(ctx, order); err != nil {
		return nil, err
	}

	if err := a.carts.ClearCart(ctx, id); err != nil {
		return order, fmt.Errorf("order %s placed but cart clear failed: %w", order.ID.Hex(), err)
	}
	return order, nil
}
