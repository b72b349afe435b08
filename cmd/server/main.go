package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/video-secretary/internal/config"
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/internal/processor"
	"github.com/nguyentantai21042004/video-secretary/internal/server"
	"github.com/nguyentantai21042004/video-secretary/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proc, err := processor.FromConfig(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to build pipeline: %v", err)
		os.Exit(1)
	}

	st, err := store.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Error(ctx, "Failed to open job store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	srv := server.New(server.Options{
		UploadDir:      filepath.Join(cfg.Paths.Temp, "uploads"),
		OutputDir:      cfg.Paths.Output,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		MaxConcurrent:  cfg.Performance.MaxConcurrent,
	}, proc, st, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Listen(cfg.Server.Addr)
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "Shutdown signal received")
	case err := <-errChan:
		log.Error(context.Background(), "Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "Shutdown: %v", err)
	}
	log.Info(shutdownCtx, "Video secretary server stopped")
}
