package transcriber

import (
	"context"
	"errors"
)

var (
	// ErrAssetUnreadable means the source audio could not be opened or probed.
	ErrAssetUnreadable = errors.New("audio asset unreadable")
	// ErrSplitFailed means the file needed splitting but no chunk could be exported.
	ErrSplitFailed = errors.New("audio split failed")
)

// Driver turns one audio file into a transcript, splitting it first when it
// exceeds the transcription API's payload ceiling.
type Driver interface {
	Transcribe(ctx context.Context, req Request) (Result, error)
}

// Request describes one transcription.
type Request struct {
	AudioPath    string
	OutputPath   string
	Language     string
	CeilingBytes int64
	MinChunkMs   int64
	// WorkDir holds the exported chunks; empty means the system temp dir.
	WorkDir  string
	Observer Observer
}

// Segment is the transcript of one chunk. Err is set when the chunk failed
// and Text was left empty.
type Segment struct {
	Ordinal  int
	Interval Interval
	Text     string
	Err      error
}

// Result is the ordered transcript and where it was written.
type Result struct {
	Text       string
	OutputPath string
	Segments   []Segment
	Plan       Plan
	Failed     int
}

// Progress is reported after every chunk, successful or not.
type Progress struct {
	Ordinal   int
	Completed int
	Total     int
	Failed    bool
}

// Fraction is the share of chunks completed so far.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// Observer receives progress notifications.
type Observer interface {
	ChunkCompleted(p Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(p Progress)

func (f ObserverFunc) ChunkCompleted(p Progress) { f(p) }
