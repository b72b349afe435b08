package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/video-secretary/internal/summarizer"
	"github.com/nguyentantai21042004/video-secretary/internal/transcriber"
)

// Process orchestrates the entire video processing pipeline. When a later
// step fails the returned Output still names the files already written.
func (p *implProcessor) Process(ctx context.Context, in Input) (Output, error) {
	startTime := time.Now()
	if in.VideoPath == "" {
		return Output{}, fmt.Errorf("video path is required")
	}
	if in.Name == "" {
		in.Name = baseName(in.VideoPath)
	}
	if in.OutputDir == "" {
		in.OutputDir = p.cfg.Paths.Output
	}
	notify := listenerOrNop(in.Listener)

	p.logger.Info(ctx, "Starting video processing: %s", in.VideoPath)

	if err := os.MkdirAll(in.OutputDir, 0755); err != nil {
		return Output{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return Output{}, fmt.Errorf("create temp dir: %w", err)
	}
	workDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "job-*")
	if err != nil {
		return Output{}, fmt.Errorf("create work dir: %w", err)
	}
	defer p.cleanupDir(ctx, workDir)

	// Step 1: Extract audio
	notify.StepStarted(StepExtract)
	audioPath := filepath.Join(workDir, "audio.mp3")
	if err := p.media.ExtractAudio(ctx, in.VideoPath, audioPath); err != nil {
		return Output{}, fmt.Errorf("extract audio: %w", err)
	}
	defer p.cleanupTempFile(ctx, audioPath)
	notify.StepProgress(StepExtract, 1)

	// Step 2: Transcribe, splitting when the audio is over the API limit
	notify.StepStarted(StepTranscribe)
	result, err := p.transcriber.Transcribe(ctx, transcriber.Request{
		AudioPath:    audioPath,
		OutputPath:   filepath.Join(in.OutputDir, in.Name+".txt"),
		Language:     p.cfg.Groq.Language,
		CeilingBytes: p.cfg.Chunking.MaxFileSizeBytes,
		MinChunkMs:   p.cfg.Chunking.MinChunkMs,
		WorkDir:      workDir,
		Observer: transcriber.ObserverFunc(func(pr transcriber.Progress) {
			notify.StepProgress(StepTranscribe, pr.Fraction())
		}),
	})
	if err != nil {
		return Output{}, fmt.Errorf("transcribe: %w", err)
	}

	out := Output{
		TranscriptPath: result.OutputPath,
		Transcript:     result.Text,
		Segments:       len(result.Segments),
		FailedSegments: result.Failed,
	}

	// Step 3: Summarize and render the document
	notify.StepStarted(StepSummarize)
	if err := p.summarize(ctx, in, &out, notify); err != nil {
		return out, err
	}
	notify.StepStarted(StepDone)

	p.logger.Info(ctx, "Processing completed: %s (%d segments, %d failed) in %s",
		in.Name, out.Segments, out.FailedSegments, time.Since(startTime).Round(time.Millisecond))
	return out, nil
}

func (p *implProcessor) summarize(ctx context.Context, in Input, out *Output, notify Listener) error {
	summary, err := p.summarizer.Summarize(ctx, out.Transcript)
	if errors.Is(err, summarizer.ErrEmptyTranscript) {
		p.logger.Warn(ctx, "Transcript of %s has no text, skipping summary", in.Name)
		notify.StepProgress(StepSummarize, 1)
		return nil
	}
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	out.Summary = summary
	notify.StepProgress(StepSummarize, 0.5)

	summaryPath := filepath.Join(in.OutputDir, in.Name+"_resumo.txt")
	if err := os.WriteFile(summaryPath, []byte(summary+"\n"), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	out.SummaryPath = summaryPath

	docPath := filepath.Join(in.OutputDir, in.Name+".docx")
	if err := p.summarizer.WriteDocument(in.Name, summary, docPath); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	out.DocumentPath = docPath
	notify.StepProgress(StepSummarize, 1)
	return nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

type nopListener struct{}

func (nopListener) StepStarted(Step)           {}
func (nopListener) StepProgress(Step, float64) {}

func listenerOrNop(l Listener) Listener {
	if l == nil {
		return nopListener{}
	}
	return l
}
