package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monstergarden/monstergarden/engine"
	enginehttp "github.com/monstergarden/monstergarden/engine/http"
	"github.com/monstergarden/monstergarden/engine/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler("MonsterGarden")))

	slog.Info("Starting MonsterGarden progression engine",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := engine.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	e := engine.New(*cfg, version, commit)
	if err := e.SetupServices(ctx); err != nil {
		cancel()
		slog.Error("Failed to set up services", slog.Any("error", err))
		os.Exit(1)
	}
	cancel()

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	e.ResetService.Start(schedulerCtx)

	server := enginehttp.NewServer(e.WalletService, e.QuestService, e.MonsterService, e.ResetService, e.Bus)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Listening", slog.String("address", address))
		if err := server.Listen(address); err != nil {
			slog.Error("Server stopped", slog.Any("error", err))
		}
	}()

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down...")
	stopScheduler()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.Any("error", err))
	}

	e.Close()
	slog.Info("Shutdown complete")
}
