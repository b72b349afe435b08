package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nguyentantai21042004/video-secretary/internal/store"
	"github.com/nguyentantai21042004/video-secretary/pkg/b3"
)

// SupportedExtensions are the upload types accepted by POST /api/jobs.
var SupportedExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

type jobResponse struct {
	store.Job
	CompletedSteps []string `json:"completed_steps"`
	Cached         bool     `json:"cached,omitempty"`
}

func newJobResponse(job store.Job) jobResponse {
	return jobResponse{Job: job, CompletedSteps: completedSteps(job)}
}

func (s *implServer) createJob(c *fiber.Ctx) error {
	fh, err := c.FormFile("video")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field \"video\" is required")
	}
	if fh.Size > int64(s.opts.MaxUploadBytes) {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload is %d bytes, the limit is %d", fh.Size, s.opts.MaxUploadBytes))
	}
	name := filepath.Base(fh.Filename)
	if !supported(name) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType,
			"unsupported file type, expected one of "+strings.Join(SupportedExtensions, ", "))
	}

	if err := os.MkdirAll(s.opts.UploadDir, 0755); err != nil {
		return err
	}
	id := uuid.NewString()
	path := uploadPath(s.opts.UploadDir, id, name)
	if err := c.SaveFile(fh, path); err != nil {
		return err
	}

	hash, err := b3.HashFile(path)
	if err != nil {
		os.Remove(path)
		return err
	}

	ctx := c.UserContext()
	if prev, err := s.store.GetJobByHash(ctx, hash); err == nil {
		os.Remove(path)
		s.logger.Info(ctx, "Upload %s matches completed job %s, returning cached result", name, prev.ID)
		resp := newJobResponse(prev)
		resp.Cached = true
		return c.Status(fiber.StatusOK).JSON(resp)
	} else if !errors.Is(err, store.ErrNotFound) {
		os.Remove(path)
		return err
	}

	job, err := s.store.CreateJob(ctx, store.Job{
		ID:     id,
		Name:   strings.TrimSuffix(name, filepath.Ext(name)),
		Hash:   hash,
		Status: store.StatusPending,
	})
	if err != nil {
		os.Remove(path)
		return err
	}

	s.runJob(job, path)
	return c.Status(fiber.StatusAccepted).JSON(newJobResponse(job))
}

func (s *implServer) listJobs(c *fiber.Ctx) error {
	jobs, err := s.store.ListJobs(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	resp := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, newJobResponse(job))
	}
	return c.JSON(resp)
}

func (s *implServer) getJob(c *fiber.Ctx) error {
	job, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(newJobResponse(job))
}

func (s *implServer) getTranscript(c *fiber.Ctx) error {
	return s.sendArtifact(c, func(j store.Job) string { return j.TranscriptPath }, false)
}

func (s *implServer) getSummary(c *fiber.Ctx) error {
	return s.sendArtifact(c, func(j store.Job) string { return j.SummaryPath }, false)
}

func (s *implServer) getDocument(c *fiber.Ctx) error {
	return s.sendArtifact(c, func(j store.Job) string { return j.DocumentPath }, true)
}

func (s *implServer) sendArtifact(c *fiber.Ctx, pick func(store.Job) string, download bool) error {
	job, err := s.lookup(c)
	if err != nil {
		return err
	}
	path := pick(job)
	switch {
	case job.Status == store.StatusCompleted && path == "":
		return fiber.NewError(fiber.StatusNotFound, "job produced no such file")
	case job.Status != store.StatusCompleted && path == "":
		return fiber.NewError(fiber.StatusConflict, "job is "+string(job.Status))
	}
	if _, err := os.Stat(path); err != nil {
		return fiber.NewError(fiber.StatusGone, "file is no longer available")
	}

	if download {
		return c.Download(path, job.Name+filepath.Ext(path))
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendFile(path)
}

func (s *implServer) lookup(c *fiber.Ctx) (store.Job, error) {
	job, err := s.store.GetJob(c.UserContext(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return store.Job{}, fiber.NewError(fiber.StatusNotFound, "job not found")
	}
	return job, err
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
