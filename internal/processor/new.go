package processor

import (
	"github.com/nguyentantai21042004/video-secretary/internal/config"
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/internal/media"
	"github.com/nguyentantai21042004/video-secretary/internal/summarizer"
	"github.com/nguyentantai21042004/video-secretary/internal/transcriber"
)

type implProcessor struct {
	cfg         *config.Config
	media       media.Service
	transcriber transcriber.Driver
	summarizer  summarizer.Summarizer
	logger      logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, m media.Service, t transcriber.Driver, s summarizer.Summarizer, log logger.Logger) Processor {
	return &implProcessor{
		cfg:         cfg,
		media:       m,
		transcriber: t,
		summarizer:  s,
		logger:      log,
	}
}
