package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/velostore/storefront/internal/cartstore"
	"github.com/velostore/storefront/internal/catalog"
	h "github.com/velostore/storefront/internal/http"
	"github.com/velostore/storefront/internal/service"
	"github.com/velostore/storefront/internal/session"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	CatalogDBPath   string
	MigrationsPath  string
	RedisAddr       string
	RedisPassword   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "./catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/catalog/migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront cart service starting...")

	cfg := loadConfig()
	ctx := context.Background()

	// Catalog database (variant resolution). Embedded, so a failure here
	// is a deployment problem rather than a runtime condition.
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Println("Catalog migrations completed")

	resolver := catalog.NewResolver(catalogRepo, catalog.NewFallbackCatalog())

	// Durable cart backend. The connection is lazy and per-operation
	// failures degrade to the in-memory fallback, so an unreachable
	// database at startup is logged, not fatal.
	mongoDB, err := cartstore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Invalid MongoDB configuration: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)

	durable := cartstore.NewMongoStore(mongoDB)

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := mongoDB.Client().Ping(pingCtx, nil); err != nil {
		log.Printf("MongoDB unreachable at startup, cart operations will use the in-memory fallback: %v", err)
	} else {
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
		if err := durable.CreateIndexes(ctx); err != nil {
			log.Printf("Failed to create cart indexes: %v", err)
		}
	}
	cancelPing()

	// Transient cart backend, owned here and injected so the
	// weak-consistency tradeoff stays visible instead of living in a
	// package-level global.
	fallback := cartstore.NewMemoryStore()

	cartService := service.NewCartService(durable, fallback, resolver)
	cartHandler := h.NewCartHandler(cartService)

	// Session store for authenticated owner resolution; optional.
	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable at startup, session lookups may fail: %v", err)
		}
		sessions = session.NewRedisStore(redisClient)
		log.Printf("Session store using redis at %s", cfg.RedisAddr)
	} else {
		log.Println("No REDIS_ADDR configured, requests are anonymous-only")
	}

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionAuth(sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Post("/", cartHandler.AddItem)
		r.Put("/", cartHandler.UpdateQuantity)
		r.Delete("/", cartHandler.DeleteCart)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront cart service listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("Storefront cart service stopped")
}
