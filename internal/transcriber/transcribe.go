package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/video-secretary/internal/media"
	"github.com/nguyentantai21042004/video-secretary/internal/speech"
)

// Transcribe probes the audio, splits it when it is over the ceiling and
// transcribes the pieces one at a time in timeline order. A failed chunk
// leaves an empty line in the transcript; only an unreadable asset or a
// split that yields nothing aborts the request.
func (d *implDriver) Transcribe(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	asset, err := d.media.Probe(ctx, req.AudioPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAssetUnreadable, err)
	}

	if asset.Empty() {
		d.logger.Warn(ctx, "Audio %s is empty (%d bytes, %d ms), writing empty transcript",
			req.AudioPath, asset.SizeBytes, asset.DurationMs)
		return d.persist(ctx, req, Result{})
	}

	plan := NewPlan(asset, req.CeilingBytes, req.MinChunkMs)
	result := Result{Plan: plan}

	if plan.Whole {
		d.logger.Info(ctx, "Audio fits the %d byte limit (%d bytes), transcribing whole file", req.CeilingBytes, asset.SizeBytes)
		seg := d.transcribeSegment(ctx, req, 0, plan.Intervals[0], asset.Path)
		result.add(seg)
		d.notify(req, seg, 1, 1)
		return d.persist(ctx, req, result)
	}

	d.logger.Info(ctx, "Audio is %d bytes, splitting into %d chunks of %d ms (%d usable, %d too short)",
		asset.SizeBytes, plan.NumChunks, plan.ChunkDurationMs, len(plan.Intervals), plan.Dropped)

	if len(plan.Intervals) == 0 {
		d.logger.Warn(ctx, "Every chunk is shorter than %d ms, nothing to transcribe", req.MinChunkMs)
		return d.persist(ctx, req, result)
	}

	chunkDir, err := os.MkdirTemp(req.WorkDir, "chunks-*")
	if err != nil {
		return Result{}, fmt.Errorf("%w: create chunk dir: %v", ErrSplitFailed, err)
	}
	defer os.RemoveAll(chunkDir)

	exported := 0
	total := len(plan.Intervals)
	for ordinal, iv := range plan.Intervals {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		seg := d.processChunk(ctx, req, asset, chunkDir, ordinal, iv)
		if !errors.Is(seg.Err, errExport) {
			exported++
		}
		result.add(seg)
		d.notify(req, seg, ordinal+1, total)
	}

	if exported == 0 {
		return Result{}, fmt.Errorf("%w: none of %d chunks could be exported", ErrSplitFailed, total)
	}

	return d.persist(ctx, req, result)
}

var errExport = errors.New("export chunk")

// processChunk exports one interval, transcribes it and removes the export.
func (d *implDriver) processChunk(ctx context.Context, req Request, asset media.Asset, dir string, ordinal int, iv Interval) Segment {
	chunkPath := filepath.Join(dir, fmt.Sprintf("chunk_%04d_%d.mp3", ordinal, iv.Start))

	if err := d.media.Export(ctx, asset, iv.Start, iv.End, chunkPath); err != nil {
		d.logger.Error(ctx, "Chunk %d [%d, %d): export failed: %v", ordinal, iv.Start, iv.End, err)
		os.Remove(chunkPath)
		return Segment{Ordinal: ordinal, Interval: iv, Err: fmt.Errorf("%w: %v", errExport, err)}
	}
	defer d.removeChunk(ctx, chunkPath)

	if fi, err := os.Stat(chunkPath); err == nil && fi.Size() > req.CeilingBytes {
		d.logger.Warn(ctx, "Chunk %d is %d bytes, above the %d byte limit", ordinal, fi.Size(), req.CeilingBytes)
	}

	return d.transcribeSegment(ctx, req, ordinal, iv, chunkPath)
}

// transcribeSegment never fails: errors are logged and leave Text empty.
func (d *implDriver) transcribeSegment(ctx context.Context, req Request, ordinal int, iv Interval, path string) Segment {
	seg := Segment{Ordinal: ordinal, Interval: iv}

	text, err := d.speech.Transcribe(ctx, path, req.Language)
	if err != nil {
		seg.Err = err
		if errors.Is(err, speech.ErrPayloadTooShort) {
			d.logger.Warn(ctx, "Chunk %d skipped, audio too short: %v", ordinal, err)
		} else {
			d.logger.Error(ctx, "Chunk %d transcription failed: %v", ordinal, err)
		}
		return seg
	}

	seg.Text = text
	d.logger.Debug(ctx, "Chunk %d transcribed (%d chars)", ordinal, len(text))
	return seg
}

func (d *implDriver) removeChunk(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		d.logger.Warn(ctx, "Failed to remove chunk %s: %v", path, err)
	}
}

func (d *implDriver) notify(req Request, seg Segment, completed, total int) {
	if req.Observer == nil {
		return
	}
	req.Observer.ChunkCompleted(Progress{
		Ordinal:   seg.Ordinal,
		Completed: completed,
		Total:     total,
		Failed:    seg.Err != nil,
	})
}

// persist joins the segments in ordinal order, one line each, and writes
// them to the output path.
func (d *implDriver) persist(ctx context.Context, req Request, result Result) (Result, error) {
	var b strings.Builder
	for _, seg := range result.Segments {
		b.WriteString(seg.Text)
		b.WriteByte('\n')
	}
	result.Text = b.String()

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return Result{}, fmt.Errorf("create transcript dir: %w", err)
	}
	if err := os.WriteFile(req.OutputPath, []byte(result.Text), 0644); err != nil {
		return Result{}, fmt.Errorf("write transcript: %w", err)
	}
	result.OutputPath = req.OutputPath

	d.logger.Info(ctx, "Transcript written: %s (%d segments, %d failed)", req.OutputPath, len(result.Segments), result.Failed)
	return result, nil
}

func (r *Result) add(seg Segment) {
	r.Segments = append(r.Segments, seg)
	if seg.Err != nil {
		r.Failed++
	}
}

func (r Request) validate() error {
	if r.AudioPath == "" {
		return fmt.Errorf("audio path is required")
	}
	if r.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if r.CeilingBytes <= 0 {
		return fmt.Errorf("size ceiling must be positive, got %d", r.CeilingBytes)
	}
	if r.MinChunkMs <= 0 {
		return fmt.Errorf("minimum chunk duration must be positive, got %d", r.MinChunkMs)
	}
	return nil
}
