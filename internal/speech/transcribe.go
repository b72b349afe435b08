package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// minPayloadBytes is the smallest file worth sending; anything below is a
// container header with no audio.
const minPayloadBytes = 100

// Transcribe uploads audioPath and returns the recognized text.
func (c *implClient) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	fi, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPayloadTooShort, err)
	}
	if fi.Size() < minPayloadBytes {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrPayloadTooShort, audioPath, fi.Size())
	}

	c.logger.Debug(ctx, "Uploading %s (%d bytes) to %s", audioPath, fi.Size(), c.model)

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: audioPath,
		Language: language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		if isTooShort(err) {
			return "", fmt.Errorf("%w: %v", ErrPayloadTooShort, err)
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("transcription api (HTTP %d): %w", apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("transcription api: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

func isTooShort(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "too short")
}
