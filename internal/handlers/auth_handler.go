package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rmehra/papertrade/internal/ledger"
	"github.com/rmehra/papertrade/internal/models"
	"github.com/rmehra/papertrade/internal/services"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	engine       ledger.Engine
	authService  services.AuthService
	jwtSecretKey []byte
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(engine ledger.Engine, authService services.AuthService, jwtSecretKey []byte) *AuthHandler {
	return &AuthHandler{
		engine:       engine,
		authService:  authService,
		jwtSecretKey: jwtSecretKey,
	}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.Register).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")
}

// Register creates a new account with the starting cash balance
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	account, err := h.engine.Register(req.Username, req.Password, req.Confirmation)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrDuplicateUsername):
			http.Error(w, "Username already taken", http.StatusConflict)
		case errors.Is(err, ledger.ErrPasswordMismatch):
			http.Error(w, "Passwords do not match", http.StatusBadRequest)
		case errors.Is(err, ledger.ErrInvalidInput):
			http.Error(w, "Must provide username and password", http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

// Login handles user login and returns a JWT token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	account, err := h.authService.Authenticate(loginReq.Username, loginReq.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	tokenString, err := h.authService.GenerateToken(account, h.jwtSecretKey)
	if err != nil {
		http.Error(w, "Could not generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
	})
}
