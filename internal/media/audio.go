package media

import (
	"context"
	"fmt"
	"strconv"
)

// ExtractAudio pulls the audio track of a video into a mono MP3 file.
func (s *implService) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	s.logger.Info(ctx, "Extracting audio: %s -> %s", videoPath, audioPath)

	// -vn: drop video
	// -ac 1 / -ar: mono at the transcription sample rate
	// -c:a libmp3lame -b:a: compressed, keeps most recordings under the API ceiling
	args := []string{
		"-y",
		"-v", "error",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(s.opts.SampleRate),
		"-c:a", "libmp3lame",
		"-b:a", s.opts.AudioBitrate,
		audioPath,
	}

	if _, err := s.executor.Execute(ctx, s.opts.FFmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	s.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return nil
}

// Export re-encodes [startMs, endMs) of the asset into outPath.
func (s *implService) Export(ctx context.Context, asset Asset, startMs, endMs int64, outPath string) error {
	if startMs < 0 || endMs <= startMs {
		return fmt.Errorf("invalid interval [%d, %d)", startMs, endMs)
	}

	args := []string{
		"-y",
		"-v", "error",
		"-ss", FormatSeconds(startMs),
		"-i", asset.Path,
		"-t", FormatSeconds(endMs - startMs),
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(s.opts.SampleRate),
		"-c:a", "libmp3lame",
		"-b:a", s.opts.ChunkBitrate,
		outPath,
	}

	if _, err := s.executor.Execute(ctx, s.opts.FFmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg export [%d, %d): %w", startMs, endMs, err)
	}

	s.logger.Debug(ctx, "Exported [%d, %d) -> %s", startMs, endMs, outPath)
	return nil
}

// FormatSeconds renders milliseconds the way ffmpeg expects a time offset.
func FormatSeconds(ms int64) string {
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}
