package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starvault/starvault/starvault"
	"github.com/starvault/starvault/starvault/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting StarVault settlement engine",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldRevalue := flag.Bool("revalue", false, "Recompute stored card values against the current catalog on startup")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := starvault.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	customHandler.SetLevel(cfg.Log.Level)
	slog.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	setupStart := time.Now()
	engine := starvault.New(*cfg, version, commit)
	if err := engine.Setup(ctx); err != nil {
		slog.Error("Engine setup failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(setupStart)))
		os.Exit(-1)
	}
	defer engine.Close(context.Background())

	slog.Info("Engine setup completed", slog.Duration("took", time.Since(setupStart)))

	if *shouldRevalue {
		stats, err := engine.Coordinator.RevalueAll(ctx)
		if err != nil {
			slog.Error("Revaluation failed", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Startup revaluation done",
			slog.Int("total", stats.Total),
			slog.Int("updated", int(stats.Updated)))
	}

	slog.Info("StarVault is now running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down StarVault...")
}
