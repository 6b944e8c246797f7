package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"scrunchie-store/models"
	"scrunchie-store/store"
	"scrunchie-store/utils"
)

// UserController handles user-related requests
type UserController struct {
	Users store.UserStore
}

// NewUserController creates a new UserController
func NewUserController(users store.UserStore) *UserController {
	return &UserController{Users: users}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		respondFailure(w, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := uc.Users.GetUserByEmail(ctx, body.Email); err == nil {
		respondFailure(w, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondFailure(w, "Database error")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		respondFailure(w, "Error hashing password")
		return
	}

	user := &models.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: string(hashedPassword),
		Role:     "user",
		CartData: map[string]interface{}{},
		Wishlist: []string{},
	}
	id, err := uc.Users.CreateUser(ctx, user)
	if err != nil {
		respondFailure(w, "Error creating user")
		return
	}

	token, err := utils.GenerateJWT(id, user.Email, user.Role)
	if err != nil {
		respondFailure(w, "Error generating token")
		return
	}
	respond(w, map[string]interface{}{"success": true, "token": token})
}

// Login handles user login
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		respondFailure(w, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.GetUserByEmail(ctx, body.Email)
	if err != nil {
		respondFailure(w, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		respondFailure(w, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		respondFailure(w, "Error generating token")
		return
	}
	respond(w, map[string]interface{}{"success": true, "token": token})
}

// AdminLogin authenticates the back-office against the configured admin
// credential pair.
func (uc *UserController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondFailure(w, "Email and password are required")
		return
	}

	if body.Email == "" || body.Email != os.Getenv("ADMIN_EMAIL") || body.Password != os.Getenv("ADMIN_PASSWORD") {
		respondFailure(w, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT("admin", body.Email, "admin")
	if err != nil {
		respondFailure(w, "Error generating token")
		return
	}
	respond(w, map[string]interface{}{"success": true, "token": token})
}

// GetProfile returns the authenticated user's profile.
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		respondFailure(w, "User not found")
		return
	}
	respond(w, map[string]interface{}{"success": true, "user": user})
}

// UpdateProfile overwrites the user's mutable profile fields.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondFailure(w, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := uc.Users.UpdateProfile(ctx, claims.UserID, body.Name, body.Phone, body.Address); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFailure(w, "User not found")
			return
		}
		respondFailure(w, "Failed to update profile")
		return
	}
	respondMessage(w, "Profile updated successfully")
}

// ToggleWishlist adds a product to the user's wishlist, or removes it if
// already present.
func (uc *UserController) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		respondFailure(w, "Product ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		respondFailure(w, "User not found")
		return
	}

	wishlist := make([]string, 0, len(user.Wishlist)+1)
	removed := false
	for _, id := range user.Wishlist {
		if id == body.ProductID {
			removed = true
			continue
		}
		wishlist = append(wishlist, id)
	}
	message := "Added to wishlist"
	if removed {
		message = "Removed from wishlist"
	} else {
		wishlist = append(wishlist, body.ProductID)
	}

	if err := uc.Users.SetWishlist(ctx, claims.UserID, wishlist); err != nil {
		respondFailure(w, "Failed to update wishlist")
		return
	}
	respond(w, map[string]interface{}{"success": true, "message": message, "wishlist": wishlist})
}
