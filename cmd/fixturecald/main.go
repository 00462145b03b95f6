package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"fixturecal/internal/catalog"
	"fixturecal/internal/config"
	"fixturecal/internal/daemon"
	"fixturecal/internal/logging"
	"fixturecal/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "fixturecald.log")},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := catalog.Open(cfg.DatabasePath())
	if err != nil {
		logger.Error("open catalog", logging.Error(err))
		return
	}

	manager, err := workflow.NewManager(cfg, store, logger)
	if err != nil {
		store.Close()
		logger.Error("build workflow", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		store.Close()
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("fixturecald shutting down")
}
