package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/cart"
	"go-storefront/models"
)

var validForm = CheckoutForm{
	CustomerName:  "Amara Perera",
	CustomerEmail: "amara@example.com",
	CustomerPhone: "0771234567",
	Address:       "12 Galle Road",
	City:          "Colombo",
	PostalCode:    "00300",
}

func newFixture(t *testing.T) (*cart.Service, *MemRepository, *Assembler) {
	t.Helper()
	carts := cart.NewService(cart.NewMemStore())
	repo := NewMemRepository()
	return carts, repo, NewAssembler(repo, carts)
}

func TestAssembleTotals(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("flat fee below threshold", func(t *testing.T) {
		c := &models.Cart{Lines: []models.CartLine{
			{ProductID: "P1", Price: 3000, Quantity: 1},
			{ProductID: "P2", Price: 1000, Quantity: 1},
		}}
		order := Assemble("u1", c, validForm, now)
		assert.Equal(t, 4000.0, order.Subtotal)
		assert.Equal(t, 200.0, order.DeliveryFee)
		assert.Equal(t, 4200.0, order.TotalAmount)
	})

	t.Run("free delivery at threshold", func(t *testing.T) {
		c := &models.Cart{Lines: []models.CartLine{
			{ProductID: "P1", Price: 3000, Quantity: 2},
		}}
		order := Assemble("u1", c, validForm, now)
		assert.Equal(t, 6000.0, order.Subtotal)
		assert.Equal(t, 0.0, order.DeliveryFee)
		assert.Equal(t, 6000.0, order.TotalAmount)
	})

	t.Run("quantities multiply", func(t *testing.T) {
		c := &models.Cart{Lines: []models.CartLine{
			{ProductID: "P1", Price: 1500, Quantity: 3},
		}}
		order := Assemble("u1", c, validForm, now)
		assert.Equal(t, 4500.0, order.Subtotal)
		assert.Equal(t, 4700.0, order.TotalAmount)
	})
}

func TestAssembleDefaults(t *testing.T) {
	now := time.Now()
	c := &models.Cart{Lines: []models.CartLine{{ProductID: "P1", Price: 100, Quantity: 1}}}

	form := validForm
	form.PostalCode = "  "
	order := Assemble("u1", c, form, now)

	assert.Equal(t, DefaultPostalCode, order.ShippingAddress.PostalCode)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentCashOnDelivery, order.PaymentMethod)
	assert.Equal(t, now, order.CreatedAt)
	assert.Equal(t, now, order.UpdatedAt)
}

func TestCheckoutFormValidate(t *testing.T) {
	assert.NoError(t, validForm.Validate())

	for _, tc := range []struct {
		name   string
		mutate func(*CheckoutForm)
	}{
		{"customer name", func(f *CheckoutForm) { f.CustomerName = "" }},
		{"customer email", func(f *CheckoutForm) { f.CustomerEmail = " " }},
		{"customer phone", func(f *CheckoutForm) { f.CustomerPhone = "" }},
		{"address", func(f *CheckoutForm) { f.Address = "" }},
		{"city", func(f *CheckoutForm) { f.City = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm
			tc.mutate(&form)
			err := form.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.name)
		})
	}

	// A missing postal code is defaulted, not rejected.
	form := validForm
	form.PostalCode = ""
	assert.NoError(t, form.Validate())
}

func TestPlaceOrderClearsCartOnSuccess(t *testing.T) {
	ctx := context.Background()
	carts, repo, assembler := newFixture(t)
	user := cart.UserIdentity("u1")

	require.NoError(t, carts.AddItem(ctx, user, "P1", 2, cart.Snapshot{Title: "Mug", Price: 1200}))

	order, err := assembler.PlaceOrder(ctx, user, validForm)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.False(t, order.ID.IsZero())
	assert.Equal(t, 2400.0, order.Subtotal)

	// The cart is empty for that identity afterwards.
	remaining, err := carts.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, remaining.Lines)

	// And the order is retrievable.
	stored, err := repo.Get(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, order.TotalAmount, stored.TotalAmount)
}

func TestPlaceOrderRetainsCartOnFailure(t *testing.T) {
	ctx := context.Background()
	carts, repo, assembler := newFixture(t)
	user := cart.UserIdentity("u1")

	require.NoError(t, carts.AddItem(ctx, user, "P1", 2, cart.Snapshot{Title: "Mug", Price: 1200}))

	repo.InsertErr = errors.New("storage down")
	_, err := assembler.PlaceOrder(ctx, user, validForm)
	require.Error(t, err)

	// The shopper can retry without losing their items.
	remaining, err := carts.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, remaining.Lines, 1)
	assert.Equal(t, 2, remaining.Lines[0].Quantity)
}

func TestPlaceOrderRequiresUser(t *testing.T) {
	ctx := context.Background()
	_, _, assembler := newFixture(t)

	_, err := assembler.PlaceOrder(ctx, cart.GuestIdentity("tok"), validForm)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	ctx := context.Background()
	_, _, assembler := newFixture(t)

	_, err := assembler.PlaceOrder(ctx, cart.UserIdentity("u1"), validForm)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlacedOrderIsImmutable(t *testing.T) {
	ctx := context.Background()
	carts, repo, assembler := newFixture(t)
	user := cart.UserIdentity("u1")

	require.NoError(t, carts.AddItem(ctx, user, "P1", 1, cart.Snapshot{Title: "Mug", Price: 1200}))
	order, err := assembler.PlaceOrder(ctx, user, validForm)
	require.NoError(t, err)

	// The shopper adds the same product again after a price hike; the
	// placed order keeps the snapshot it froze.
	require.NoError(t, carts.AddItem(ctx, user, "P1", 1, cart.Snapshot{Title: "Mug", Price: 9900}))

	stored, err := repo.Get(ctx, order.ID.Hex())
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 1200.0, stored.Items[0].Price)
	assert.Equal(t, 1400.0, stored.TotalAmount)
}

func TestPlaceOrderReportsFailedClear(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemStore()
	carts := cart.NewService(store)
	repo := NewMemRepository()
	assembler := NewAssembler(repo, carts)
	user := cart.UserIdentity("u1")

	require.NoError(t, carts.AddItem(ctx, user, "P1", 1, cart.Snapshot{Price: 100}))

	store.DeleteErr = errors.New("storage down")
	order, err := assembler.PlaceOrder(ctx, user, validForm)
	require.Error(t, err)
	// The order itself was written and is returned for the retry path.
	require.NotNil(t, order)
	_, getErr := repo.Get(ctx, order.ID.Hex())
	assert.NoError(t, getErr)
}

func TestListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRepository()

	older := Assemble("u1", &models.Cart{Lines: []models.CartLine{{ProductID: "P1", Price: 100, Quantity: 1}}}, validForm, time.Now().Add(-time.Hour))
	newer := Assemble("u1", &models.Cart{Lines: []models.CartLine{{ProductID: "P2", Price: 100, Quantity: 1}}}, validForm, time.Now())
	other := Assemble("u2", &models.Cart{Lines: []models.CartLine{{ProductID: "P3", Price: 100, Quantity: 1}}}, validForm, time.Now())
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))
	require.NoError(t, repo.Insert(ctx, other))

	got, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "P2", got[0].Items[0].ProductID)
	assert.Equal(t, "P1", got[1].Items[0].ProductID)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRepository()

	order := Assemble("u1", &models.Cart{Lines: []models.CartLine{{ProductID: "P1", Price: 100, Quantity: 1}}}, validForm, time.Now())
	require.NoError(t, repo.Insert(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID.Hex(), models.OrderShipped))
	stored, err := repo.Get(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, stored.Status)

	// Only status and updated_at moved.
	assert.Equal(t, order.TotalAmount, stored.TotalAmount)
	assert.Equal(t, order.CreatedAt.Unix(), stored.CreatedAt.Unix())

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", models.OrderShipped), ErrOrderNotFound)
}
