package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mentor-backend/cmd"
	"mentor-backend/internal/api"
	"mentor-backend/internal/database"
	"mentor-backend/internal/llm"
	"mentor-backend/internal/storage"
)

type APIConfig struct {
	DatabaseURL    string   `env:"DATABASE_URL"`
	OpenAIAPIKey   string   `env:"OPENAI_API_KEY,notEmpty,required"`
	OpenAIModel    string   `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	APIPort        string   `env:"API_PORT" envDefault:"8000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	var store storage.Store
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, using in-memory storage; conversations will not survive restarts")
		store = storage.NewMemoryStore()
	} else {
		db, err := database.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		store = storage.NewDatabaseStore(db)
	}

	client := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout

	// API Handlers (dependency injection)
	chatService := api.NewChatService(store, client)
	chatService.AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
