// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	zlog "github.com/rs/zerolog/log"

	"github.com/unibienestar/eventos-api/internal/config"
	"github.com/unibienestar/eventos-api/internal/database"
	"github.com/unibienestar/eventos-api/internal/handler"
	"github.com/unibienestar/eventos-api/internal/repository"
	"github.com/unibienestar/eventos-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}
	logger := config.NewLogger(cfg)

	ctx := context.Background()

	// ── 1. Connect to MongoDB ─────────────────────────────────────────────
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("database close failed")
		}
	}()
	logger.Info().Str("database", cfg.MongoDBName).Msg("connected to mongodb")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(db)
	catalog := repository.NewCatalogResolver(db)
	eventSvc := service.NewEventService(eventRepo, catalog)
	eventHandler := handler.NewEventHandler(eventSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", handler.NewHealthHandler(cfg.AppName, cfg.AppVersion))

	r.Route("/eventos", func(r chi.Router) {
		r.Post("/", eventHandler.Create)
		r.Get("/", eventHandler.List)
		r.Get("/{id}", eventHandler.Get)
		r.Patch("/{id}", eventHandler.Patch)
		r.Delete("/{id}", eventHandler.Delete)
		r.Post("/{id}/evaluaciones", eventHandler.AddEvaluation)
		r.Get("/{id}/responsables", eventHandler.ListOrganizers)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("app", cfg.AppName).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
