package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

type probeOutput struct {
	Format struct {
		Duration decimal.Decimal `json:"duration"`
	} `json:"format"`
}

var thousand = decimal.NewFromInt(1000)

// Probe reads the size of path from the filesystem and its duration from
// ffprobe. Empty files come back as a zero asset without invoking ffprobe.
func (s *implService) Probe(ctx context.Context, path string) (Asset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Asset{}, fmt.Errorf("stat audio: %w", err)
	}
	if fi.IsDir() {
		return Asset{}, fmt.Errorf("stat audio: %s is a directory", path)
	}

	asset := Asset{Path: path, SizeBytes: fi.Size()}
	if asset.SizeBytes == 0 {
		return asset, nil
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	}
	out, err := s.executor.Execute(ctx, s.opts.FFprobePath, args...)
	if err != nil {
		return Asset{}, fmt.Errorf("ffprobe: %w", err)
	}

	durationMs, err := parseDurationMs([]byte(out))
	if err != nil {
		return Asset{}, fmt.Errorf("ffprobe output: %w", err)
	}
	asset.DurationMs = durationMs

	s.logger.Debug(ctx, "Probed %s: %d bytes, %d ms", path, asset.SizeBytes, asset.DurationMs)
	return asset, nil
}

// parseDurationMs converts ffprobe's decimal seconds into whole milliseconds.
func parseDurationMs(data []byte) (int64, error) {
	var po probeOutput
	if err := json.Unmarshal(data, &po); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	if po.Format.Duration.IsNegative() {
		return 0, fmt.Errorf("negative duration %s", po.Format.Duration)
	}
	return po.Format.Duration.Mul(thousand).IntPart(), nil
}
