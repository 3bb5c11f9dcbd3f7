package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/moviesir/moviesir/internal/shared"
	"github.com/moviesir/moviesir/internal/storage"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.NewDatabase(config.Storage.Path)
	if err != nil {
		logger.Fatalf("failed to open local store: %v", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)

	store, err := storage.NewStore(db)
	if err != nil {
		logger.Fatalf("failed to initialize local store: %v", err)
	}
	sessions := storage.NewSessionStore(store)

	timeout := time.Duration(config.API.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Sessions:   sessions,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "moviesir",
		Usage:    "시간에 맞는 영화를 추천해드려요",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrSessionExpired) {
			logger.Warn("session expired, please log in again")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
