package main

// GET    /health                      - Liveness + database ping
// POST   /api/auth/register           - Create an account
// POST   /api/auth/login              - Exchange credentials for a JWT
// GET    /api/products                - Catalog query (search, filters, sort, paging; X-Total-Count)
// GET    /api/products/{id}           - Product detail with features and reviews
// POST   /api/products                - Create a product (Admin)
// PUT    /api/products/{id}           - Update a product (Admin)
// PATCH  /api/products/{id}/stock     - Set stock (Admin)
// DELETE /api/products/{id}           - Delete a product (Admin)
// GET    /api/categories, /api/brands - Filter reference data
// GET    /api/cart                    - Current user's cart
// PUT    /api/cart/sync               - Replace the cart with the client's view
// POST   /api/order/checkout          - Turn the cart into an order
// GET    /api/order, /api/order/{id}  - Order history
// GET|POST /api/addresses, DELETE /api/addresses/{id} - Address book

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/auth"
	"storefront/cache"
	"storefront/config"
	"storefront/handler"
	"storefront/service"
	"storefront/store"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- Store ---
	st, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer st.Close()

	// --- Migrations ---
	if err := store.RunMigrations(st.DB); err != nil {
		log.Fatalf("Failed running migrations: %v", err)
	}
	log.Println("Database migrations applied")

	// --- Cart cache ---
	var cartCache cache.CartCache = cache.NopCache{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Printf("redis unavailable at %s, cart cache disabled: %v", cfg.RedisAddr, err)
		} else {
			cartCache = cache.NewRedisCache(rdb, cfg.CartCacheTTL)
		}
	}

	// --- Auth ---
	issuer, err := auth.NewJWTIssuer(auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}

	// --- Service ---
	svc := service.NewService(st, cartCache, issuer, auth.NewBcryptHasher())
	var serviceInterface service.ServiceInterface = svc

	if cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := svc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			log.Fatalf("admin bootstrap: %v", err)
		}
	}

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface, issuer)

	// --- Router ---
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer,
		middleware.Timeout(cfg.RequestTimeout))
	h.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Page-Number", "X-Page-Size", "Location"},
		AllowCredentials: true,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
