package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const jobColumns = `id, name, blake3_hash, status, step, progress, error,
	transcript_path, summary_path, document_path, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func (s *implStore) CreateJob(ctx context.Context, job Job) (Job, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if job.Status == "" {
		job.Status = StatusPending
	}
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		insert into jobs (`+jobColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		job.ID, job.Name, job.Hash, job.Status, job.Step, job.Progress, job.Error,
		job.TranscriptPath, job.SummaryPath, job.DocumentPath,
		now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return Job{}, fmt.Errorf("persisting job into sqlite: %w", err)
	}

	return job, nil
}

func (s *implStore) GetJob(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ctx, "select "+jobColumns+" from jobs where id = $1", id)
	job, err := scanJob(row)
	if err != nil {
		return Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (s *implStore) GetJobByHash(ctx context.Context, hash string) (Job, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+jobColumns+` from jobs
		where blake3_hash = $1 and status = $2
		order by updated_at desc
		limit 1`,
		hash, StatusCompleted,
	)
	job, err := scanJob(row)
	if err != nil {
		return Job{}, fmt.Errorf("get job by hash: %w", err)
	}
	return job, nil
}

func (s *implStore) UpdateStep(ctx context.Context, id, step string, progress float64) error {
	return s.update(ctx, id, `
		update jobs set status = $1, step = $2, progress = $3, updated_at = $4
		where id = $5`,
		StatusRunning, step, progress, nowMillis(), id,
	)
}

func (s *implStore) Complete(ctx context.Context, id string, a Artifacts) error {
	return s.update(ctx, id, `
		update jobs set status = $1, progress = 1, error = '',
			transcript_path = $2, summary_path = $3, document_path = $4, updated_at = $5
		where id = $6`,
		StatusCompleted, a.TranscriptPath, a.SummaryPath, a.DocumentPath, nowMillis(), id,
	)
}

func (s *implStore) Fail(ctx context.Context, id string, reason string, a Artifacts) error {
	return s.update(ctx, id, `
		update jobs set status = $1, error = $2,
			transcript_path = $3, summary_path = $4, document_path = $5, updated_at = $6
		where id = $7`,
		StatusFailed, reason, a.TranscriptPath, a.SummaryPath, a.DocumentPath, nowMillis(), id,
	)
}

func (s *implStore) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, "select "+jobColumns+" from jobs order by created_at desc, id limit $1", limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (s *implStore) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update job %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanJob(row scanner) (Job, error) {
	var (
		job                  Job
		status               string
		createdAt, updatedAt int64
	)
	err := row.Scan(&job.ID, &job.Name, &job.Hash, &status, &job.Step, &job.Progress, &job.Error,
		&job.TranscriptPath, &job.SummaryPath, &job.DocumentPath, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}

	job.Status = Status(status)
	job.CreatedAt = time.UnixMilli(createdAt).UTC()
	job.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return job, nil
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}
