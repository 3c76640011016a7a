package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"golang.org/x/time/rate"

	"hotel-frontdesk-backend/config"
	"hotel-frontdesk-backend/internal/api"
	"hotel-frontdesk-backend/internal/auth"
	"hotel-frontdesk-backend/internal/billing"
	"hotel-frontdesk-backend/internal/db"
	"hotel-frontdesk-backend/internal/digest"
	"hotel-frontdesk-backend/internal/engine"
	"hotel-frontdesk-backend/internal/events"
	"hotel-frontdesk-backend/internal/ledger"
	"hotel-frontdesk-backend/internal/mw"
	"hotel-frontdesk-backend/internal/notification"
	"hotel-frontdesk-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "frontdesk ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret must be configured")
	}

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys are not configured; push notifications are disabled")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	loc := cfg.Hotel.Location

	var publisher events.Publisher = events.Noop{}
	if cfg.Events.Enabled {
		publisher = events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue)
		logger.Printf("publishing reservation events to queue %q", cfg.Events.Queue)
	}
	defer publisher.Close()

	users := auth.NewService(appStore, auth.NewIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute), cfg.Auth.BcryptCost)
	if err := users.EnsureRoot(ctx, cfg.Auth.RootPassword); err != nil {
		logger.Fatalf("failed to bootstrap root user: %v", err)
	}

	services := api.Services{
		Engine:  engine.New(appStore, engine.WithLocation(loc), engine.WithPublisher(publisher)),
		Ledger:  ledger.New(appStore, nil, loc),
		Billing: billing.New(appStore, nil, loc),
		Users:   users,
	}

	if webpushOptions != nil {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		pool.Start(ctx)
		go digest.NewService(&cfg.Digest, appStore, pool, loc).Run(ctx)
	}

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	go pruneVisitors(ctx, limiter, logger)

	router := api.NewRouter(appStore, services, api.RouterOptions{
		Limiter:        limiter,
		CacheTTL:       time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		WebPush:        webpushOptions,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

// pruneVisitors forgets idle rate-limit entries until ctx is done.
func pruneVisitors(ctx context.Context, limiter *mw.IPRateLimiter, logger *log.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(30 * time.Minute); n > 0 {
				logger.Printf("rate limiter: pruned %d idle clients", n)
			}
		}
	}
}
