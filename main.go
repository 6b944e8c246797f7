// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v83"

	"scrunchie-store/controllers"
	"scrunchie-store/payments"
	"scrunchie-store/routes"
	"scrunchie-store/store"
	"scrunchie-store/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Payment provider credentials
	stripe.Key = os.Getenv("STRIPE_API_KEY")
	razorpayKeyID := os.Getenv("RAZORPAY_KEY_ID")
	razorpaySecret := os.Getenv("RAZORPAY_KEY_SECRET")

	deliveryFee := 10.0
	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Fatalf("Invalid DELIVERY_FEE: %v", err)
		}
		deliveryFee = fee
	}
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	// Initialize EmailService and the async notifier
	emailService := utils.NewEmailService()
	notifier := utils.NewEmailNotifier(emailService, os.Getenv("ADMIN_EMAIL"))

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := store.NewMongo(client)

	// Payment verification strategies, keyed by payment method
	verifiers := map[string]payments.Verifier{
		"COD":      payments.COD{},
		"Razorpay": payments.Razorpay{Secret: razorpaySecret},
	}

	// Initialize controllers
	userController := controllers.NewUserController(db)
	productController := controllers.NewProductController(db)
	cartController := controllers.NewCartController(db, db)
	orderController := controllers.NewOrderController(
		db, db, db,
		payments.NewStripeGateway(),
		payments.NewRazorpayGateway(razorpayKeyID, razorpaySecret),
		razorpayKeyID,
		verifiers,
		notifier,
		deliveryFee,
		frontendURL,
	)

	// Set up the router and register routes
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, orderController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Printf("Server is running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
