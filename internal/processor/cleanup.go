package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Handle moves an inbox video to the processing folder, runs the pipeline
// and archives the source when it succeeds.
func (p *implProcessor) Handle(ctx context.Context, videoPath string) error {
	processingPath, err := p.moveTo(ctx, videoPath, p.cfg.Paths.Processing)
	if err != nil {
		return fmt.Errorf("move to processing: %w", err)
	}

	out, err := p.Process(ctx, Input{
		VideoPath: processingPath,
		Name:      baseName(videoPath),
		OutputDir: p.cfg.Paths.Output,
	})
	if err != nil {
		p.logger.Error(ctx, "Processing failed, leaving %s in place: %v", processingPath, err)
		return err
	}

	if _, err := p.moveTo(ctx, processingPath, p.cfg.Paths.Archived); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "Output transcript: %s", out.TranscriptPath)
	if out.DocumentPath != "" {
		p.logger.Info(ctx, "Output document: %s", out.DocumentPath)
	}
	return nil
}

// moveTo moves a file into dir, keeping its name.
func (p *implProcessor) moveTo(ctx context.Context, path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	destPath := filepath.Join(dir, filepath.Base(path))

	p.logger.Info(ctx, "Moving %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

func (p *implProcessor) cleanupDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup work dir %s: %v", dir, err)
	}
}
