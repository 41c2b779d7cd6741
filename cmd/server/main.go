package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/rpattn/specreg/internal/config"
	"github.com/rpattn/specreg/internal/db"
	"github.com/rpattn/specreg/internal/export"
	"github.com/rpattn/specreg/internal/ingestion"
	"github.com/rpattn/specreg/internal/middleware"
	"github.com/rpattn/specreg/internal/registry"
	"github.com/rpattn/specreg/internal/repository"
	"github.com/rpattn/specreg/internal/suggest"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.Migrate(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire repositories and services
	entryRepo := repository.NewEntryRepository(conn.Pool)
	registryService := registry.NewService(entryRepo)
	suggestService := suggest.NewService(cfg.OpenAIKey, cfg.OpenAIModel)
	exportService := export.NewService(registryService)
	importService := ingestion.NewService(registryService)

	registryHandler := registry.NewHTTPHandler(registryService)

	mux := http.NewServeMux()
	mux.Handle("/api/history", registryHandler)
	mux.Handle("/api/history/", registryHandler)
	mux.Handle("/api/summaries", registryHandler)
	mux.Handle("/api/reports", registryHandler)
	mux.Handle("/api/suggest", suggest.NewHTTPHandler(suggestService))
	mux.Handle("/api/export", export.NewHTTPHandler(exportService))
	mux.Handle("/api/import", ingestion.NewHTTPHandler(importService))

	// Setup CORS for the browser dashboard
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      middleware.LoggingMiddleware(corsHandler.Handler(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting registry server on %s", cfg.ListenAddr)
		if suggestService.Enabled() {
			log.Println("Version suggestions enabled")
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
