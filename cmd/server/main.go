package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"leadership-chatbot-server/internal/config"
	"leadership-chatbot-server/internal/database"
	"leadership-chatbot-server/internal/handler"
	"leadership-chatbot-server/internal/middleware"
	"leadership-chatbot-server/internal/observability"
	"leadership-chatbot-server/internal/provider"
	"leadership-chatbot-server/internal/repository"
	"leadership-chatbot-server/internal/service"
	"leadership-chatbot-server/pkg/jwt"
	"leadership-chatbot-server/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger()

	if err := observability.InitSentry(cfg.Sentry.DSN, cfg.Server.Env); err != nil {
		logger.Warn("sentry_init_failed", map[string]any{"error": err.Error()})
	}
	defer observability.FlushSentry()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.Open(ctx, cfg.Database)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// The provider handle is built once here and injected; request handling
	// never constructs or replaces it.
	answerProvider := provider.NewLlamaCloudProvider(cfg.Provider, logger)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(chatRepo, userRepo, answerProvider)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	chatHandler := handler.NewChatHandler(chatService)

	r := mux.NewRouter()

	r.Use(middleware.RecoverMiddleware(logger))
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	r.HandleFunc("/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	r.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/health", healthHandler(db)).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	refresh := r.PathPrefix("/refresh").Subrouter()
	refresh.Use(middleware.AuthMiddleware(cfg.JWT.Secret, jwt.TokenTypeRefresh))
	refresh.HandleFunc("", authHandler.Refresh).Methods("POST", "OPTIONS")

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, jwt.TokenTypeAccess))
	protected.HandleFunc("/me", userHandler.GetMe).Methods("GET", "OPTIONS")
	protected.HandleFunc("/ask-question", chatHandler.AskQuestion).Methods("POST", "OPTIONS")
	protected.HandleFunc("/chat-history", chatHandler.History).Methods("GET", "OPTIONS")
	protected.HandleFunc("/chat-history/{id:[0-9]+}", chatHandler.GetItem).Methods("GET", "OPTIONS")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No write timeout: /ask-question blocks until the answer provider
		// settles, and the provider call carries no deadline of its own.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server_starting", map[string]any{"addr": addr, "env": cfg.Server.Env})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server_shutting_down", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server_stopped", nil)
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Leadership Chatbot API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/signup":            "POST",
			"/login":             "POST",
			"/refresh":           "POST (refresh token)",
			"/me":                "GET (protected)",
			"/ask-question":      "POST (protected)",
			"/chat-history":      "GET (protected)",
			"/chat-history/{id}": "GET (protected)",
			"/health":            "GET",
		},
	})
}
