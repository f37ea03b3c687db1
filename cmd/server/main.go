package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsite/internal/api"
	"github.com/dgallion1/docsite/internal/build"
	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/publish"
	"github.com/dgallion1/docsite/internal/render"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the renderer and the optional publish client.
	renderer := render.NewPageRenderer(cfg.TocConfig(), render.NewStats(cfg.StatsWindow))
	var publisher *publish.Client
	if cfg.PublishURL != "" {
		publisher = publish.NewClient(cfg.PublishURL, cfg.PublishAPIKey)
	}

	// Initialize the build pipeline.
	orch := build.NewOrchestrator(cfg, renderer, publisher, log)
	orch.Start(ctx)

	// Build the site once at startup so the API has a tree to serve.
	if job, err := orch.SubmitBuild(false); err != nil {
		log.Error("initial build submit failed", "error", err)
	} else {
		log.Info("initial build queued", "job_id", job.ID, "source_dir", cfg.SourceDir)
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

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

		if publisher != nil {
			publisher.Close()
		}
	}()

	log.Info("starting docsite", "port", cfg.Port, "source_dir", cfg.SourceDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
