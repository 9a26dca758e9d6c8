package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docstruct/internal/api"
	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/docstore"
	"github.com/dgallion1/docstruct/internal/extractor"
	"github.com/dgallion1/docstruct/internal/infer"
	"github.com/dgallion1/docstruct/internal/pipeline"
	_ "modernc.org/sqlite"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage. The sqlite driver allows one writer at a time.
	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		log.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(1)
	store := docstore.New(db)
	if err := store.Init(ctx); err != nil {
		log.Error("initialize database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// Initialize optional clients.
	var remote *extractor.Client
	if cfg.ExtractorURL != "" {
		remote = extractor.NewClient(cfg.ExtractorURL, cfg.ExtractorAPIKey)
	}
	var inf *infer.Client
	if cfg.InferAPIKey != "" {
		inf = infer.NewClient(cfg.InferURL, cfg.InferAPIKey, cfg.InferModel)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, remote, inf, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, store, inf, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if remote != nil {
			remote.Close()
		}
		if inf != nil {
			inf.Close()
		}
		db.Close()
	}()

	log.Info("starting docstruct", "port", cfg.Port, "workers", cfg.WorkerCount, "db", cfg.DBPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
