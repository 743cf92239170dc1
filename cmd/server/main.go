package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	grpcapi "rentshare-backend/internal/api/grpc"
	httpapi "rentshare-backend/internal/api/http"
	"rentshare-backend/internal/cache"
	"rentshare-backend/internal/config"
	"rentshare-backend/internal/jobs"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository/postgres"
	"rentshare-backend/internal/scheduler"
	"rentshare-backend/internal/security"
	"rentshare-backend/internal/service"
	"rentshare-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetHTTPAddress(), "grpc_address", cfg.GetGRPCAddress(), "base_url", cfg.Server.BaseURL)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db, postgres.WithLockTimeout(cfg.LockTimeout()))

	// Booking list cache is optional
	var bookingCache service.BookingCache
	var cachePinger jobs.Pinger
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		rc := cache.NewBookingCache(client, cfg.CacheTTL())
		if err := rc.PingContext(ctx); err != nil {
			logger.Warn("Redis unreachable, booking lists will be read from the database", "addr", cfg.Redis.Addr, "error", err)
		}
		bookingCache = rc
		cachePinger = rc
		logger.Info("Booking cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.CacheTTL())
	}

	// Initialize Evidence Storage
	evidence, err := storage.New(ctx, storage.Config{
		Type:    cfg.Storage.Type,
		RootDir: cfg.Storage.RootDir,
		Bucket:  cfg.Storage.Bucket,
		Region:  cfg.Storage.Region,
		Prefix:  cfg.Storage.Prefix,
	})
	if err != nil {
		logger.Error("Failed to initialize evidence storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize evidence storage: %v", err)
	}
	logger.Info("Evidence storage ready", "type", cfg.Storage.Type)

	// Initialize Services
	listingSvc := service.NewListingService(store, store.Listings)
	walletSvc := service.NewWalletService(store.Wallets)
	bookingSvc := service.NewBookingService(
		store,
		store.Listings,
		store.Bookings,
		store.Wallets,
		evidence,
		bookingCache,
		service.BookingOptions{
			MaxRetries:             cfg.Booking.MaxRetries,
			RetryBackoff:           cfg.RetryBackoff(),
			RequirePaymentEvidence: cfg.Booking.RequirePaymentEvidence,
		},
	)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenExpiry())

	// HTTP API
	handler := httpapi.NewHandler(bookingSvc, listingSvc, walletSvc, evidence, tokenManager, db, httpapi.Options{
		BaseURL:        cfg.Server.BaseURL,
		MaxUploadBytes: cfg.Storage.MaxFileSizeMB << 20,
		AllowedTypes:   cfg.Storage.AllowedTypes,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC health + reflection
	health := grpcapi.NewHealth()
	grpcServer := grpcapi.NewServer(health)

	// Background jobs
	jobRunner := jobs.NewJobRunner(jobs.Dependencies{
		Stock:  store.Listings,
		DB:     db,
		Cache:  cachePinger,
		Health: health,
	}, cfg)
	jobRunner.CheckHealth()
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to configure scheduler: %v", err)
	}
	cronScheduler.Start()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if cfg.Server.GRPCPort != 0 {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		go func() {
			logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	// Graceful shutdown
	cronScheduler.Stop()
	health.Shutdown()
	grpcServer.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	logger.Info("RentShare Backend stopped. Goodbye!")
}
