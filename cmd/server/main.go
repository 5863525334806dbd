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

	"pretenz/internal/config"
	"pretenz/internal/extract"
	_ "pretenz/internal/extract/ollama"
	"pretenz/internal/handler"
	"pretenz/internal/parser"
	"pretenz/internal/port"
	"pretenz/internal/recovery"
	"pretenz/internal/repository/postgres"
	"pretenz/internal/router"
	"pretenz/internal/service"
	"pretenz/internal/validator"
	"pretenz/internal/validator/entity"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	recordRepo := postgres.NewParseRecordRepo(db)

	// Extraction chain: pattern matching first, then the configured LLM
	// providers behind a rate-limit-aware fallback.
	sources := []port.ExtractionSource{extract.NewPatternSource()}
	names := []string{"pattern"}

	primary, err := extract.NewSource(&cfg.Extract.Primary)
	if err != nil {
		return fmt.Errorf("failed to initialize primary extraction source: %w", err)
	}
	sources = append(sources, primary)
	names = append(names, cfg.Extract.Primary.Provider)

	if secondaryCfg := cfg.Extract.SecondaryConfig(); secondaryCfg != nil {
		secondary, err := extract.NewSource(secondaryCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize secondary extraction source: %w", err)
		}
		sources = append(sources, secondary)
		names = append(names, secondaryCfg.Provider)
	}
	source := extract.NewFallbackSource(sources, names)

	// Validation and recovery engines
	validation := validator.NewEngine(entity.NewRegistry())
	rec := recovery.NewEngine(validation, recovery.Policy{
		ClassPrecedence: recovery.ClassPrecedence(cfg.Recovery.ClassPrecedence),
	})

	// Parsing pipeline
	coordinator := parser.NewCoordinator(source, validation, rec)
	reconciler := parser.NewReconciler(cfg.Merge.Threshold)
	integrated := parser.NewIntegratedParser(nil, coordinator, reconciler)

	// Initialize services
	parseSvc := service.NewParseService(integrated, recordRepo)
	entitySvc := service.NewEntityService(rec)

	// Initialize handlers
	parseH := handler.NewParseHandler(parseSvc)
	entityH := handler.NewEntityHandler(entitySvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, parseH, entityH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
