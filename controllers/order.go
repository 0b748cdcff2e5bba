// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"go-storefront/cart"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/orders"
	"go-storefront/utils"
)

// OrderController handles order-related requests
type OrderController struct {
	Assembler    *orders.Assembler
	Orders       orders.Repository
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(repo orders.Repository, assembler *orders.Assembler, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Assembler:    assembler,
		Orders:       repo,
		EmailService: emailService,
	}
}

type checkoutResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Checkout freezes the authenticated user's cart into an order
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var form orders.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Assembler.PlaceOrder(ctx, cart.UserIdentity(claims.UserID), form)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		result := checkoutResult{Success: false, Error: err.Error()}
		if order != nil {
			// The order write succeeded; only the cart clear failed.
			result.OrderID = order.ID.Hex()
		}
		json.NewEncoder(w).Encode(result)
		return
	}

	// Send confirmation email to user
	go func(email string, placed models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, placed); err != nil {
			log.Printf("Failed to send email to %s: %v", email, err)
		}
	}(order.CustomerEmail, *order)

	json.NewEncoder(w).Encode(checkoutResult{Success: true, OrderID: order.ID.Hex()})
}

// GetOrders retrieves all orders for the authenticated user, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	userOrders, err := oc.Orders.ListByUser(ctx, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userOrders)
}

// UpdateOrderStatus allows admin to move an order through fulfillment
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok || claims.Role != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	orderID := vars["id"]

	var statusUpdate struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusUpdate); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !models.ValidOrderStatus(statusUpdate.Status) {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := oc.Orders.UpdateStatus(ctx, orderID, statusUpdate.Status); err != nil {
		if err == orders.ErrOrderNotFound {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	// Notify the customer about the status change
	order, err := oc.Orders.Get(ctx, orderID)
	if err == nil {
		go func(email string, updated models.Order) {
			if err := oc.EmailService.SendOrderStatusEmail(email, updated); err != nil {
				log.Printf("Failed to send email to %s: %v", email, err)
			}
		}(order.CustomerEmail, *order)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Order status updated successfully"})
}
