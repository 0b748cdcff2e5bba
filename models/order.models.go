package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus tracks fulfillment progress.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentCashOnDelivery is the only supported payment method.
const PaymentCashOnDelivery = "cash-on-delivery"

// OrderLine is a frozen copy of a cart line. Once an order is placed,
// catalog and cart changes cannot reach these values.
type OrderLine struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
}

// Order represents a placed order. It is immutable once created; only
// Status and UpdatedAt may change afterwards, driven by fulfillment.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"user_id" json:"user_id"`
	CustomerName    string             `bson:"customer_name" json:"customer_name"`
	CustomerEmail   string             `bson:"customer_email" json:"customer_email"`
	CustomerPhone   string             `bson:"customer_phone" json:"customer_phone"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shipping_address"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Items           []OrderLine        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	DeliveryFee     float64            `bson:"delivery_fee" json:"delivery_fee"`
	TotalAmount     float64            `bson:"total_amount" json:"total_amount"`
	Status          OrderStatus        `bson:"status" json:"status"`
	PaymentMethod   string             `bson:"payment_method" json:"payment_method"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
