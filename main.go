// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"go-storefront/cart"
	"go-storefront/controllers"
	"go-storefront/orders"
	"go-storefront/routes"
	"go-storefront/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Wire up the cart engine and the order assembler
	cartService := cart.NewService(cart.NewMongoStore(client))
	orderRepo := orders.NewMongoRepository(client)
	assembler := orders.NewAssembler(orderRepo, cartService)

	// Initialize controllers
	userController := controllers.NewUserController(client, emailService, cartService)
	productController := controllers.NewProductController(client)
	cartController := controllers.NewCartController(client, cartService)
	orderController := controllers.NewOrderController(orderRepo, assembler, emailService)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, orderController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
