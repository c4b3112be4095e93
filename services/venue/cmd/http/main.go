package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/services/venue/app/server"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
		logger.WithServiceName(cfg.App.Name, cfg.App.Environment),
	)
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, *cfg, log)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_server"})
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "run_server"})
	}

	log.Info("Shutting down venue service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "shutdown_server"})
	}

	log.Info("Venue service stopped")
}
