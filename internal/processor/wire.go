package processor

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/video-secretary/internal/config"
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/internal/media"
	"github.com/nguyentantai21042004/video-secretary/internal/speech"
	"github.com/nguyentantai21042004/video-secretary/internal/summarizer"
	"github.com/nguyentantai21042004/video-secretary/internal/transcriber"
	"github.com/nguyentantai21042004/video-secretary/pkg/executor"
)

// FromConfig locates ffmpeg and ffprobe and builds the full pipeline.
func FromConfig(cfg *config.Config, log logger.Logger) (Processor, error) {
	ffmpeg, err := media.Locate(cfg.FFmpeg.BinaryPath, cfg.FFmpeg.SearchPaths)
	if err != nil {
		return nil, fmt.Errorf("locate ffmpeg: %w", err)
	}
	ffprobe, err := media.Locate(cfg.FFmpeg.ProbePath, cfg.FFmpeg.SearchPaths)
	if err != nil {
		return nil, fmt.Errorf("locate ffprobe: %w", err)
	}

	m := media.New(media.Options{
		FFmpegPath:   ffmpeg,
		FFprobePath:  ffprobe,
		AudioBitrate: cfg.FFmpeg.AudioBitrate,
		ChunkBitrate: cfg.FFmpeg.ChunkBitrate,
		SampleRate:   cfg.FFmpeg.SampleRate,
	}, executor.New(), log)

	sp := speech.New(speech.Options{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
		Model:   cfg.Groq.Model,
		Timeout: time.Duration(cfg.Groq.TimeoutSec) * time.Second,
	}, log)

	return New(
		cfg,
		m,
		transcriber.New(m, sp, log),
		summarizer.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log),
		log,
	), nil
}
