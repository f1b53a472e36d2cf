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

	"medicquiz/internal/app"
	"medicquiz/internal/app/observability"
	"medicquiz/internal/exam"
	"medicquiz/internal/imagestore"

	"go.uber.org/zap"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Printf("config error: %v", err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Printf("logger error: %v", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	repo, closeRepo, err := app.OpenRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer closeRepo()

	catalog := exam.LoadCatalog(ctx, repo)
	images := imagestore.New(ctx, cfg.ImagesDir, repo, nil, logger.Named("images"))
	collector := observability.NewCollector(logger.Named("http"))

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      app.NewRouter(cfg, catalog, images, collector, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("medicquiz web listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.Int("tests", len(catalog.Tests())),
			zap.Int("questions", len(catalog.Questions())),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
