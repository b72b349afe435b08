package media

import (
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/pkg/executor"
)

// Options configures the ffmpeg invocations.
type Options struct {
	FFmpegPath   string
	FFprobePath  string
	AudioBitrate string
	ChunkBitrate string
	SampleRate   int
}

type implService struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Service backed by the ffmpeg and ffprobe binaries.
func New(opts Options, exec executor.Executor, log logger.Logger) Service {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = "ffprobe"
	}
	if opts.AudioBitrate == "" {
		opts.AudioBitrate = "64k"
	}
	if opts.ChunkBitrate == "" {
		opts.ChunkBitrate = opts.AudioBitrate
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 16000
	}
	return &implService{
		opts:     opts,
		executor: exec,
		logger:   log,
	}
}
