package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safeschool/internal/config"
	"safeschool/internal/database"
	"safeschool/internal/game"
	"safeschool/internal/handlers"
	"safeschool/internal/kvstore"
	"safeschool/internal/repository"
	"safeschool/internal/security"
	"safeschool/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Validate the built-in level catalogs before serving anything
	for _, name := range game.GameNames() {
		catalog, _ := game.Lookup(name)
		if err := catalog.Validate(); err != nil {
			log.Fatalf("Invalid game catalog %s: %v", name, err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	playerRepo := repository.NewPlayerRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, emailService)
	linkService := service.NewLinkService(linkRepo, playerRepo)
	gameService := service.NewGameService(linkRepo, playerRepo)

	// Game sessions persist through the database so they survive restarts
	engine := game.NewEngine(kvstore.NewSQLStore(db), gameService)

	// Initialize middleware and handlers
	limiter := security.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	middleware := handlers.NewMiddleware(authService, limiter)

	authHandler := handlers.NewAuthHandler(authService)
	oauthHandler := handlers.NewOAuthHandler(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBase, cfg.PublicBaseURL)
	dataHandler := handlers.NewDataHandler(linkService, cfg.PublicBaseURL)
	gameHandler := handlers.NewGameHandler(gameService, engine)
	sessionHandler := handlers.NewSessionHandler(engine)

	// Set up routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/sign-up", middleware.RateLimit(authHandler.SignUp))
	mux.HandleFunc("POST /api/v1/auth/sign-in", middleware.RateLimit(authHandler.SignIn))
	mux.HandleFunc("GET /api/v1/auth/google/start", oauthHandler.Start)
	mux.HandleFunc("GET /api/v1/auth/google/callback", oauthHandler.Callback)

	// Protected teacher routes
	mux.HandleFunc("GET /api/v1/data/get-user", middleware.RequireAuth(dataHandler.GetUser))
	mux.HandleFunc("GET /api/v1/data/links", middleware.RequireAuth(dataHandler.GetLinks))
	mux.HandleFunc("POST /api/v1/data/create-link", middleware.RequireAuth(dataHandler.CreateLink))
	mux.HandleFunc("DELETE /api/v1/data/links/{code}", middleware.RequireAuth(dataHandler.DeleteLink))
	mux.HandleFunc("GET /api/v1/data/stats/{code}", middleware.RequireAuth(dataHandler.GetStats))
	mux.HandleFunc("GET /api/v1/data/links/{code}/qr", middleware.RequireAuth(dataHandler.GetLinkQR))

	// Public game routes
	mux.HandleFunc("GET /api/v1/user/check-link/{code}", gameHandler.CheckLink)
	mux.HandleFunc("POST /api/v1/game/register", gameHandler.Register)
	mux.HandleFunc("PUT /api/v1/game/finish/{playerId}", gameHandler.Finish)

	// Game session routes
	mux.HandleFunc("GET /api/v1/game/session/{playerId}", sessionHandler.State)
	mux.HandleFunc("DELETE /api/v1/game/session/{playerId}", sessionHandler.Abort)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/scene/next", sessionHandler.NextScene)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/category", sessionHandler.AssignCategory)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/quiz/answer", sessionHandler.AnswerQuiz)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/quiz/check", sessionHandler.CheckQuiz)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/video/end", sessionHandler.VideoEnded)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/kit/toggle", sessionHandler.ToggleKitItem)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/kit/check", sessionHandler.CheckKit)
	mux.HandleFunc("POST /api/v1/game/session/{playerId}/advance", sessionHandler.Advance)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
