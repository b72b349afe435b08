package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/video-secretary/internal/config"
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/internal/processor"
	"github.com/nguyentantai21042004/video-secretary/internal/watcher"
)

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

	log.Info(ctx, "Video secretary inbox mode")
	log.Info(ctx, "Max concurrent processing: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	proc, err := processor.FromConfig(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to build pipeline: %v", err)
		os.Exit(1)
	}

	w, err := watcher.New(cfg.Paths.Input, proc.Handle, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Chunk limit: %d bytes, minimum chunk %d ms", cfg.Chunking.MaxFileSizeBytes, cfg.Chunking.MinChunkMs)
	log.Info(ctx, "Press Ctrl+C to stop")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Watcher error: %v", err)
		os.Exit(1)
	}

	log.Info(context.Background(), "Video secretary stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Processing,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
