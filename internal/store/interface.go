package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no job matches.
var ErrNotFound = errors.New("job not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one uploaded video going through the pipeline.
type Job struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Hash           string    `json:"hash"`
	Status         Status    `json:"status"`
	Step           string    `json:"step"`
	Progress       float64   `json:"progress"`
	Error          string    `json:"error,omitempty"`
	TranscriptPath string    `json:"-"`
	SummaryPath    string    `json:"-"`
	DocumentPath   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Artifacts are the files a completed job produced.
type Artifacts struct {
	TranscriptPath string
	SummaryPath    string
	DocumentPath   string
}

// Store persists jobs.
type Store interface {
	CreateJob(ctx context.Context, job Job) (Job, error)
	GetJob(ctx context.Context, id string) (Job, error)
	// GetJobByHash returns the most recent completed job for the content hash.
	GetJobByHash(ctx context.Context, hash string) (Job, error)
	UpdateStep(ctx context.Context, id, step string, progress float64) error
	Complete(ctx context.Context, id string, a Artifacts) error
	// Fail records the error and any artifacts written before it.
	Fail(ctx context.Context, id string, reason string, a Artifacts) error
	ListJobs(ctx context.Context, limit int) ([]Job, error)
	Close() error
}
