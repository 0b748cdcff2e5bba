package models

import (
	"time"
)

// CartLine is one product entry in a cart. Title, price and image are
// snapshots captured when the line is first created; they are never
// refreshed from the catalog, so the shopper keeps the price they saw
// when they added the item.
type CartLine struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
}

// Cart is a shopper's cart document. At most one cart exists per cart key.
// Revision guards whole-document writes: the store only accepts a write
// when the stored revision still matches it.
type Cart struct {
	UserID    string     `bson:"user_id,omitempty" json:"user_id,omitempty"`
	GuestID   string     `bson:"guest_id,omitempty" json:"guest_id,omitempty"`
	Lines     []CartLine `bson:"items" json:"items"`
	Revision  int64      `bson:"revision" json:"-"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// Line returns the cart line for the product, or nil if the cart has none.
func (c *Cart) Line(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}
