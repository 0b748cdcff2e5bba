package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-storefront/cart"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"
)

// CartController handles cart-related requests for both guests and
// signed-in users.
type CartController struct {
	Carts    *cart.Service
	Products *mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client, carts *cart.Service) *CartController {
	collection := client.Database("storefront").Collection("products")
	return &CartController{
		Carts:    carts,
		Products: collection,
	}
}

// mutationResult is the uniform response body for cart and order
// mutations. Failures come back inline instead of as HTTP errors so a
// broken mutation cannot take down a batch of them.
type mutationResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeResult(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		json.NewEncoder(w).Encode(mutationResult{Success: false, Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(mutationResult{Success: true})
}

// resolveIdentity maps the request to a cart identity. Signed-in users are
// addressed by user id; anyone else reuses their guest token cookie or
// gets one minted here. Resolution itself never fails.
func resolveIdentity(w http.ResponseWriter, r *http.Request) cart.Identity {
	if claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims); ok {
		return cart.UserIdentity(claims.UserID)
	}
	if cookie, err := r.Cookie(cart.GuestCookieName); err == nil && cookie.Value != "" {
		return cart.GuestIdentity(cookie.Value)
	}
	token := cart.NewGuestToken()
	http.SetCookie(w, guestCookie(token))
	return cart.GuestIdentity(token)
}

func guestCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     cart.GuestCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cart.GuestCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("APP_ENV") == "production",
	}
}

func clearGuestCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cart.GuestCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetCart returns the shopper's cart, or an empty one if nothing was added
// yet
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	identity := resolveIdentity(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	shopperCart, err := cc.Carts.GetCart(ctx, identity)
	if err != nil {
		writeResult(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shopperCart)
}

// AddToCart puts a product in the cart, capturing the catalog snapshot at
// add time
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	identity := resolveIdentity(w, r)

	var input struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Quantity < 1 {
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The catalog is consulted exactly once per line: the snapshot taken
	// here is what the cart and any later order carry.
	var product models.Product
	err = cc.Products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	snap := cart.Snapshot{
		Title: product.Title,
		Price: product.Price,
		Image: product.Image,
	}
	writeResult(w, cc.Carts.AddItem(ctx, identity, input.ProductID, input.Quantity, snap))
}

// UpdateQuantity overwrites a line's quantity; zero or less removes the
// line
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	identity := resolveIdentity(w, r)
	params := mux.Vars(r)

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	writeResult(w, cc.Carts.SetQuantity(ctx, identity, params["product_id"], input.Quantity))
}

// RemoveFromCart removes a line from the cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	identity := resolveIdentity(w, r)
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	writeResult(w, cc.Carts.RemoveItem(ctx, identity, params["product_id"]))
}

// ClearCart deletes the whole cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	identity := resolveIdentity(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	writeResult(w, cc.Carts.ClearCart(ctx, identity))
}
