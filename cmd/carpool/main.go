// Package main is the entry point for the carpool command-line shell.
// It shares configuration and storage with the API server, so both can
// operate on the same registry.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkordes/carpool/internal/cli"
	"github.com/pkordes/carpool/internal/config"
	"github.com/pkordes/carpool/internal/logging"
	"github.com/pkordes/carpool/internal/repo"
	"github.com/pkordes/carpool/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Erro de configuração:", err)
		return 1
	}

	// Logs go to LOG_FILE only when set; stdout belongs to the command output.
	logger := slog.New(slog.DiscardHandler)
	if cfg.LogFile != "" {
		fileLogger, closeLog := logging.NewFile(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		defer closeLog()
		logger = fileLogger
	}

	store, closeStore, err := repo.Open(ctx, repo.OpenOptions{
		Driver:      cfg.StoreDriver,
		Path:        cfg.StorePath,
		DatabaseURL: cfg.DatabaseURL,
	}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Erro ao abrir as caronas:", err)
		return 1
	}
	defer closeStore()

	app := cli.NewApp(service.NewRideService(store, logger), service.NewExportService(store), cfg.Event())
	return cli.Run(ctx, app, os.Args[1:], os.Stdout, os.Stderr)
}
