package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neekaru/whatsapp-gateway/internal/app"
	"github.com/neekaru/whatsapp-gateway/internal/config"
	"github.com/neekaru/whatsapp-gateway/internal/server"
	"github.com/neekaru/whatsapp-gateway/internal/whatsapp"
	"github.com/neekaru/whatsapp-gateway/pkg/logger"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.SetupLogging(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log = logger.SetupFallbackLogger(cfg.LogLevel)
		log.Warn().Err(err).Msg("File logging disabled")
	}
	defer logger.CloseLogger()

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Gateway stopped with error")
		logger.CloseLogger()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := whatsapp.Open(ctx, cfg.DataDir, log)
	if err != nil {
		return fmt.Errorf("failed to open WhatsApp session: %w", err)
	}

	a := app.NewApp(cfg, session, os.Stdout, log)
	srv := server.NewServer(a)
	if err := srv.Start(); err != nil {
		_ = a.Close()
		return err
	}
	printBanner(cfg, log)

	a.Manager.Start(ctx)

	<-ctx.Done()
	log.Info().Msg("🚫 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := a.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close WhatsApp session")
	}
	log.Info().Msg("Bye")
	return nil
}

func printBanner(cfg *config.Config, log zerolog.Logger) {
	base := cfg.PublicURL
	if base == "" {
		base = "http://localhost:" + cfg.ServerPort
	}
	log.Info().
		Str("port", cfg.ServerPort).
		Str("qr", base+"/qr").
		Str("send", base+"/enviar").
		Msg("🚀 WhatsApp gateway running")
}
