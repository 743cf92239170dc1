package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"rentshare-backend/internal/config"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository/postgres"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Info("Applying schema", "host", cfg.Database.Host, "database", cfg.Database.Database)
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("Migration failed", "error", err)
		log.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Schema is up to date")
}
