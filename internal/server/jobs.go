package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/video-secretary/internal/processor"
	"github.com/nguyentantai21042004/video-secretary/internal/store"
)

// runJob processes an uploaded video in the background, at most
// MaxConcurrent at a time. The upload is removed afterwards.
func (s *implServer) runJob(job store.Job, videoPath string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer os.Remove(videoPath)

		ctx := s.baseCtx
		if err := s.waitForSlot(ctx); err != nil {
			s.fail(job.ID, err, store.Artifacts{})
			return
		}
		defer func() { <-s.slots }()

		s.logger.Info(ctx, "Job %s started: %s", job.ID, job.Name)
		out, err := s.processor.Process(ctx, processor.Input{
			VideoPath: videoPath,
			Name:      job.Name,
			OutputDir: filepath.Join(s.opts.OutputDir, job.ID),
			Listener:  &jobListener{server: s, jobID: job.ID},
		})
		arts := artifactsOf(out)
		if err != nil {
			s.fail(job.ID, err, arts)
			return
		}

		// The job context may be cancelled by now; the final state is still recorded.
		if err := s.store.Complete(context.Background(), job.ID, arts); err != nil {
			s.logger.Error(ctx, "Job %s: record completion: %v", job.ID, err)
		}
		s.hub.publish(Event{JobID: job.ID, Status: store.StatusCompleted, Step: string(processor.StepDone), Progress: 1})
		s.logger.Info(ctx, "Job %s completed (%d segments, %d failed)", job.ID, out.Segments, out.FailedSegments)
	}()
}

// waitForSlot parks a pending job until fewer than MaxConcurrent jobs are
// running, or the server shuts down.
func (s *implServer) waitForSlot(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fail records the failure. Files the pipeline wrote before failing stay
// downloadable.
func (s *implServer) fail(jobID string, cause error, arts store.Artifacts) {
	ctx := context.Background()
	s.logger.Error(ctx, "Job %s failed: %v", jobID, cause)
	if err := s.store.Fail(ctx, jobID, cause.Error(), arts); err != nil {
		s.logger.Error(ctx, "Job %s: record failure: %v", jobID, err)
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		job = store.Job{ID: jobID}
	}
	s.hub.publish(Event{JobID: jobID, Status: store.StatusFailed, Step: job.Step, Progress: job.Progress, Error: cause.Error()})
}

func artifactsOf(out processor.Output) store.Artifacts {
	return store.Artifacts{
		TranscriptPath: out.TranscriptPath,
		SummaryPath:    out.SummaryPath,
		DocumentPath:   out.DocumentPath,
	}
}

// jobListener records step changes in the store and pushes them to the hub.
type jobListener struct {
	server *implServer
	jobID  string
}

func (l *jobListener) StepStarted(step processor.Step) {
	if step == processor.StepDone {
		return
	}
	l.update(step, 0)
}

func (l *jobListener) StepProgress(step processor.Step, fraction float64) {
	l.update(step, fraction)
}

func (l *jobListener) update(step processor.Step, fraction float64) {
	progress := overallProgress(step, fraction)
	if err := l.server.store.UpdateStep(context.Background(), l.jobID, string(step), progress); err != nil {
		l.server.logger.Warn(l.server.baseCtx, "Job %s: record step %s: %v", l.jobID, step, err)
	}
	l.server.hub.publish(Event{JobID: l.jobID, Status: store.StatusRunning, Step: string(step), Progress: progress})
}

// overallProgress weighs every step equally.
func overallProgress(step processor.Step, fraction float64) float64 {
	for i, s := range processor.Steps {
		if s == step {
			return (float64(i) + min(max(fraction, 0), 1)) / float64(len(processor.Steps))
		}
	}
	if step == processor.StepDone {
		return 1
	}
	return 0
}

// completedSteps lists the steps finished before the current one.
func completedSteps(job store.Job) []string {
	done := []string{}
	if job.Status == store.StatusCompleted {
		for _, s := range processor.Steps {
			done = append(done, string(s))
		}
		return done
	}
	if job.Step == "" {
		return done
	}
	for _, s := range processor.Steps {
		if string(s) == job.Step {
			break
		}
		done = append(done, string(s))
	}
	return done
}

func uploadPath(dir, jobID, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s", jobID, filepath.Ext(name)))
}
