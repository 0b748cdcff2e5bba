// routes/routes.go
package routes

import (
	"go-storefront/controllers"
	"go-storefront/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/verify", userController.VerifyEmail).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	protected.HandleFunc("/checkout", orderController.Checkout).Methods("POST")
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")

	// Product routes
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/products").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	adminOrders := router.PathPrefix("/orders").Subrouter()
	adminOrders.Use(middleware.AuthMiddleware)
	adminOrders.Use(middleware.AdminMiddleware)
	adminOrders.HandleFunc("/{id}/status", orderController.UpdateOrderStatus).Methods("PATCH")

	// Cart routes, open to guests; a valid token switches the cart key to
	// the user's
	cartRoutes := router.PathPrefix("/cart").Subrouter()
	cartRoutes.Use(middleware.OptionalAuthMiddleware)
	cartRoutes.HandleFunc("", cartController.GetCart).Methods("GET")
	cartRoutes.HandleFunc("", cartController.ClearCart).Methods("DELETE")
	cartRoutes.HandleFunc("/items", cartController.AddToCart).Methods("POST")
	cartRoutes.HandleFunc("/items/{product_id}", cartController.UpdateQuantity).Methods("PATCH")
	cartRoutes.HandleFunc("/items/{product_id}", cartController.RemoveFromCart).Methods("DELETE")
}
