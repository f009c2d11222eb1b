package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/faq"
	"github.com/andazbayan/andaz-bot/internal/relay"
	"github.com/andazbayan/andaz-bot/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file, using system environment only")
	}

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	table, err := faq.Default()
	if err != nil {
		logger.Fatal("Failed to load FAQ table", zap.Error(err))
	}

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, relay will answer with local fallbacks")
	}

	handler := relay.New(table, cfg.OpenAI.APIKey, cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.Relay.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Relay listening", zap.String("addr", cfg.Relay.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
