package routes

import (
	"github.com/gorilla/mux"

	"scrunchie-store/controllers"
	"scrunchie-store/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	api := router.PathPrefix("/api").Subrouter()

	// Public user routes
	api.HandleFunc("/user/register", userController.Register).Methods("POST")
	api.HandleFunc("/user/login", userController.Login).Methods("POST")
	api.HandleFunc("/user/admin", userController.AdminLogin).Methods("POST")

	// Protected user routes
	user := api.PathPrefix("/user").Subrouter()
	user.Use(middleware.AuthMiddleware)
	user.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	user.HandleFunc("/profile", userController.UpdateProfile).Methods("PUT")
	user.HandleFunc("/wishlist", userController.ToggleWishlist).Methods("POST")

	// Public product routes
	api.HandleFunc("/product/list", productController.ListProducts).Methods("GET")
	api.HandleFunc("/product/{id}", productController.GetProductByID).Methods("GET")

	// Admin product routes
	product := api.PathPrefix("/product").Subrouter()
	product.Use(middleware.AuthMiddleware)
	product.Use(middleware.AdminMiddleware)
	product.HandleFunc("", productController.CreateProduct).Methods("POST")
	product.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	product.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	// Cart routes
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(middleware.AuthMiddleware)
	cart.HandleFunc("", cartController.GetCart).Methods("GET")
	cart.HandleFunc("/add", cartController.AddToCart).Methods("POST")
	cart.HandleFunc("/update", cartController.UpdateCart).Methods("POST")
	cart.HandleFunc("/clear", cartController.ClearCart).Methods("POST")

	// Order routes
	order := api.PathPrefix("/order").Subrouter()
	order.Use(middleware.AuthMiddleware)
	order.HandleFunc("/place", orderController.PlaceOrder).Methods("POST")
	order.HandleFunc("/razorpay", orderController.PlaceOrderRazorpay).Methods("POST")
	order.HandleFunc("/stripe", orderController.PlaceOrderStripe).Methods("POST")
	order.HandleFunc("/verify-stripe", orderController.VerifyStripe).Methods("POST")
	order.HandleFunc("/userorders", orderController.UserOrders).Methods("GET")
	order.HandleFunc("/cancel", orderController.CancelOrder).Methods("POST")

	// Admin order routes
	adminOrder := api.PathPrefix("/order").Subrouter()
	adminOrder.Use(middleware.AuthMiddleware)
	adminOrder.Use(middleware.AdminMiddleware)
	adminOrder.HandleFunc("/list", orderController.AllOrders).Methods("GET")
	adminOrder.HandleFunc("/status", orderController.UpdateStatus).Methods("POST")
	adminOrder.HandleFunc("/admin-cancel", orderController.AdminCancelOrder).Methods("POST")
}
