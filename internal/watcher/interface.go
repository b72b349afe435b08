package watcher

import "context"

// Watcher feeds new video files in the inbox to a handler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one video file.
type EventHandler func(ctx context.Context, filePath string) error

// SupportedFormats are the video extensions picked up from the inbox.
var SupportedFormats = []string{".mp4", ".avi", ".mov", ".mkv"}
