package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
)

// settleDelay lets a copy into the inbox finish before the file is handled.
const settleDelay = 500 * time.Millisecond

// New watches inputDir and runs at most maxConcurrent handlers at a time.
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(inputDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		watcher:       fw,
		maxConcurrent: maxConcurrent,
		slots:         make(chan struct{}, maxConcurrent),
		settle:        settleDelay,
	}, nil
}
