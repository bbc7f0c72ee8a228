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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/messagely-be/internal/config"
	"github.com/hongminglow/messagely-be/internal/logger"
	"github.com/hongminglow/messagely-be/internal/server"
	postgres "github.com/hongminglow/messagely-be/internal/storage/postgres"
)

func main() {
	envLoaded := loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	if !envLoaded {
		lg.Info("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("init database", zap.Error(err))
	}
	defer store.Close()

	srv, err := server.New(cfg, store, lg)
	if err != nil {
		lg.Fatal("init server", zap.Error(err))
	}

	go func() {
		lg.Info("messagely backend listening", zap.String("addr", cfg.HTTPAddress()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		lg.Error("graceful shutdown error", zap.Error(err))
	}
}

func loadLocalEnv() bool {
	return godotenv.Load() == nil
}
