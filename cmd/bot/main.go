package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/chat"
	"github.com/andazbayan/andaz-bot/internal/faq"
	"github.com/andazbayan/andaz-bot/internal/gateway"
	"github.com/andazbayan/andaz-bot/internal/resolver"
	"github.com/andazbayan/andaz-bot/internal/server"
	"github.com/andazbayan/andaz-bot/internal/storage"
	"github.com/andazbayan/andaz-bot/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file, using system environment only")
	}

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	store, err := newStorage(cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	// Load the FAQ knowledge base
	table, err := newFAQTable(cfg.Bot.FAQFile)
	if err != nil {
		logger.Fatal("Failed to load FAQ table", zap.Error(err))
	}
	logger.Info("FAQ table loaded", zap.Int("entries", table.Len()))

	// Wire the reply resolver
	var remote resolver.Remote
	if cfg.Bot.RemoteURL != "" {
		remote = resolver.NewHTTPRemote(cfg.Bot.RemoteURL, cfg.Bot.RequestTimeout())
	} else {
		logger.Info("No remote reply endpoint configured, running local-only")
	}
	rslv := resolver.New(table, remote, logger)

	// Bootstrap the chat service
	svc := chat.NewService(store, rslv, logger)
	svc.Load(ctx)

	// Optional Telegram front end
	if cfg.Telegram.Token != "" {
		tg, err := gateway.NewTelegram(cfg.Telegram.Token, svc, logger)
		if err != nil {
			logger.Fatal("Failed to create Telegram gateway", zap.Error(err))
		}
		go func() {
			if err := tg.Start(ctx); err != nil {
				logger.Error("Telegram gateway stopped", zap.Error(err))
			}
		}()
		logger.Info("Telegram gateway started")
	}

	router := server.NewRouter(svc, logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Chat API listening", zap.String("addr", cfg.Server.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func newStorage(cfg config.StorageConfig, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case "memory":
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil
	case "postgres":
		logger.Info("Using PostgreSQL storage")
		return storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
	default:
		logger.Info("Using Badger storage", zap.String("path", cfg.BadgerPath))
		return storage.NewBadgerStorage(cfg.BadgerPath)
	}
}

func newFAQTable(path string) (*faq.Table, error) {
	if path != "" {
		return faq.LoadFile(path)
	}
	return faq.Default()
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
