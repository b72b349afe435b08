package speech

import (
	"context"
	"errors"
)

// ErrPayloadTooShort is returned when the audio is too small to be accepted
// by the transcription API, whether detected locally or reported remotely.
var ErrPayloadTooShort = errors.New("audio payload too short")

// Client transcribes one encoded audio file.
type Client interface {
	Transcribe(ctx context.Context, audioPath string, language string) (string, error)
}
