package api

import (
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rmehra/papertrade/internal/config"
	"github.com/rmehra/papertrade/internal/handlers"
	"github.com/rmehra/papertrade/internal/ledger"
	"github.com/rmehra/papertrade/internal/middleware"
	"github.com/rmehra/papertrade/internal/quote"
	"github.com/rmehra/papertrade/internal/services"
	"github.com/rmehra/papertrade/internal/websocket"
)

// SetupRouter configures all routes and returns the router
func SetupRouter(
	db *gorm.DB,
	redisClient *redis.Client,
	wsHub *websocket.Hub,
	cfg *config.Config,
) *mux.Router {
	// Create a new router
	router := mux.NewRouter()

	// Add health check endpoint
	router.HandleFunc("/api/health", HealthHandler).Methods("GET")

	// WebSocket route
	router.HandleFunc("/ws", wsHub.HandleWebSocket)

	// Price oracle: Yahoo client, fronted by the redis quote cache when
	// redis is available.
	var oracle quote.Oracle = quote.NewYahooClient(cfg.Market.QuoteBaseURL)
	if redisClient != nil {
		oracle = quote.NewCache(oracle, redisClient, cfg.Market.QuoteCacheTTL)
	}

	// Create services
	hasher := ledger.NewBcryptHasher()
	engine := ledger.NewEngine(db, oracle, hasher, cfg.Market.StartingCash)
	authService := services.NewAuthService(db, hasher)

	// Create handlers using services
	authHandler := handlers.NewAuthHandler(engine, authService, cfg.JWT.SecretKey)
	portfolioHandler := handlers.NewPortfolioHandler(engine, wsHub)

	// Public endpoints (no authentication required)
	apiRouter := router.PathPrefix("/api").Subrouter()
	authHandler.RegisterRoutes(apiRouter)

	// Authenticated endpoints
	authRouter := apiRouter.PathPrefix("").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg.JWT.SecretKey))
	portfolioHandler.RegisterRoutes(authRouter)

	return router
}
