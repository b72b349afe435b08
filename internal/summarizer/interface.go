package summarizer

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited marks a provider response that should move on to the next key.
	ErrRateLimited = errors.New("rate limited")
	// ErrKeysExhausted means every configured key was rate limited.
	ErrKeysExhausted = errors.New("all API keys exhausted")
	// ErrEmptyTranscript is returned when there is nothing to summarize.
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// Summarizer turns a transcript into a structured summary and renders it
// as a Word document.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	WriteDocument(title, summary, outputPath string) error
}

// generator sends one prompt with one API key.
type generator interface {
	Generate(ctx context.Context, apiKey, model, prompt string) (string, error)
}
