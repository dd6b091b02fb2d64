package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nestegg/nestegg/internal/api"
	"github.com/nestegg/nestegg/internal/config"
	"github.com/nestegg/nestegg/internal/database"
	"github.com/nestegg/nestegg/internal/export"
	"github.com/nestegg/nestegg/internal/ledger"
	"github.com/nestegg/nestegg/internal/price"
	"github.com/nestegg/nestegg/internal/snapshot"
	"github.com/nestegg/nestegg/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// Connect to database
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Run migrations
	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		log.Fatalf("Failed to create migrations sub-fs: %v", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Transaction ledger
	ledgerRepo := ledger.NewPgRepository(pool)
	ledgerSvc := ledger.NewService(ledgerRepo)

	// Live prices. No quote provider ships with the service, so quotes
	// arrive through PUT /api/v1/prices until one is plugged in here.
	priceCache := price.NewCache(cfg.PriceTTL)
	priceSvc := price.NewService(priceCache, nil, price.Options{
		MaxPerCycle: cfg.MaxQuotesPerCycle,
	})

	// Snapshot service
	snapshotRepo := snapshot.NewPgRepository(pool)
	snapshotSvc := snapshot.NewService(ledgerSvc, snapshotRepo, priceSvc)

	// Export destinations
	var writers []export.Writer
	if cfg.ExportDir != "" {
		writers = append(writers, export.NewFileWriter(cfg.ExportDir))
	}
	if cfg.ExportXLSXPath != "" {
		writers = append(writers, export.NewXLSXWriter(cfg.ExportXLSXPath))
	}
	if cfg.SheetsSpreadsheetID != "" && cfg.SheetsCredentialsJSON != "" {
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsJSON)
		if err != nil {
			log.Fatalf("Failed to create sheets writer: %v", err)
		}
		writers = append(writers, sheetsWriter)
	}

	var hook worker.AfterSnapshotHook
	if len(writers) > 0 {
		hook = export.NewService(writers...)
	}

	// Start workers
	quoteWorker := worker.NewQuoteWorker(ledgerSvc, priceSvc, cfg.QuoteWorkerInterval)
	go quoteWorker.Run(ctx)

	snapshotWorker := worker.NewSnapshotWorker(snapshotSvc, cfg.SnapshotWorkerInterval, hook)
	go snapshotWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, mutating endpoints are unprotected")
	}

	// Start HTTP server
	srv := api.NewServer(cfg.HTTPPort, ledgerSvc, snapshotSvc, priceSvc, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
