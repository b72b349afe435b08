package media

import "context"

// Asset describes an audio file on disk. DurationMs and SizeBytes are read
// independently: size from the filesystem, duration from ffprobe.
type Asset struct {
	Path       string
	DurationMs int64
	SizeBytes  int64
}

// Empty reports whether the asset has nothing to transcribe.
func (a Asset) Empty() bool {
	return a.SizeBytes == 0 || a.DurationMs <= 0
}

// Service wraps the ffmpeg/ffprobe operations the pipeline needs.
type Service interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
	Probe(ctx context.Context, path string) (Asset, error)
	Export(ctx context.Context, asset Asset, startMs, endMs int64, outPath string) error
}
