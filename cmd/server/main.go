package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/studysphere/backend/internal/attempts"
	"github.com/studysphere/backend/internal/cache"
	"github.com/studysphere/backend/internal/config"
	"github.com/studysphere/backend/internal/database"
	"github.com/studysphere/backend/internal/middleware"
	"github.com/studysphere/backend/internal/progress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := attempts.NewStore(db)

	// Stats cache is optional; without Redis the service reads straight from Postgres.
	var source progress.Source = store
	var invalidator attempts.StatsInvalidator
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		pingErr := rdb.Ping(ctx).Err()
		cancel()
		if pingErr != nil {
			log.Printf("[cache] redis at %s unavailable, continuing without stats cache: %v", cfg.RedisAddr, pingErr)
		} else {
			statsCache := cache.NewStatsCache(store, rdb, cfg.StatsCacheTTL)
			source = statsCache
			invalidator = statsCache
			log.Printf("[cache] stats cache enabled (ttl %s)", cfg.StatsCacheTTL)
		}
	}

	// Initialize handlers
	service := progress.NewService(source, store, progress.Options{
		AttemptLimit: cfg.AttemptFetchLimit,
		RecentLimit:  cfg.RecentActivityLimit,
	})
	now := func() time.Time { return time.Now().In(cfg.Location) }
	attemptHandler := attempts.NewHandler(service, store, invalidator, now, cfg.AttemptFetchLimit)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))
	attemptHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("[server] received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
}
