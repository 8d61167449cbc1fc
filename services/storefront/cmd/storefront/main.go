package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/logger"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/tracing"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/app"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/config"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Stdout carries the page, so logs go to a file or stderr.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			slog.Error("failed to open log file", slog.String("path", cfg.LogFile), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.NewWithWriter("storefront", cfg.LogLevel, logOut)
	log.Info("starting storefront",
		slog.String("environment", cfg.Environment),
		slog.Bool("offline_catalog", cfg.UsesFallback()),
		slog.Duration("debounce", cfg.Debounce),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	application, err := app.NewApp(cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storefront stopped")
}
