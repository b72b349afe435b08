package transcriber

import (
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/internal/media"
	"github.com/nguyentantai21042004/video-secretary/internal/speech"
)

type implDriver struct {
	media  media.Service
	speech speech.Client
	logger logger.Logger
}

// New creates a Driver that probes and slices audio with m and sends each
// piece to s.
func New(m media.Service, s speech.Client, log logger.Logger) Driver {
	return &implDriver{
		media:  m,
		speech: s,
		logger: log,
	}
}
