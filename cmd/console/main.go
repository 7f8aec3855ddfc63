// cmd/console/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quantai/console/internal/app"
	"github.com/quantai/console/internal/config"
	"github.com/quantai/console/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(&logging.Config{
		LogFile:     cfg.LogFile,
		Development: *debug || cfg.DebugLogging,
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      7,
		Compress:    true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application := app.New(cfg, logger)

	// Subcommands issue one gateway call and exit; with no arguments the
	// console attaches to the stream and tails activity.
	if cmd := flag.Arg(0); cmd != "" {
		if err := runCommand(ctx, application, logger, cmd, flag.Args()[1:]); err != nil {
			logger.Error("Command failed", zap.String("command", cmd), zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := application.Open(ctx); err != nil {
		logger.Fatal("Failed to open application context", zap.Error(err))
	}
	defer func() { _ = application.Close() }()

	tail := newTail(application, os.Stdout)
	defer tail.Stop()

	logger.Info("Watching trading stream", zap.String("server", cfg.ServerURL))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down")
}
