package main

import (
	"flag"
	"log"
	"os"

	"ForexDash/internal/di"
	"ForexDash/pkg/config"
	"ForexDash/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Parse flags
	configPath := flag.String("config", envOr("CONFIG_PATH", "config/config.yaml"), "config file path")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	l.Info("starting",
		logger.String("env", cfg.Environment),
		logger.String("predictor", cfg.Predictor.BaseURL),
		logger.Bool("redis", cfg.Cache.Redis.Enabled),
	)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg, l)
	if err != nil {
		l.Error("app initialization failed", logger.Error(err))
		os.Exit(1)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		l.Error("app error", logger.Error(err))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
