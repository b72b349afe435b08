package server

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/internal/processor"
	"github.com/nguyentantai21042004/video-secretary/internal/store"
)

// Options configures the HTTP server.
type Options struct {
	UploadDir      string
	OutputDir      string
	MaxUploadBytes int
	MaxConcurrent  int
}

type implServer struct {
	opts      Options
	app       *fiber.App
	processor processor.Processor
	store     store.Store
	hub       *hub
	logger    logger.Logger

	// slots holds one token per running job.
	slots chan struct{}

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates the server and registers its routes.
func New(opts Options, proc processor.Processor, st store.Store, log logger.Logger) Server {
	return newServer(opts, proc, st, log)
}

func newServer(opts Options, proc processor.Processor, st store.Store, log logger.Logger) *implServer {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = fiber.DefaultBodyLimit
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &implServer{
		opts:      opts,
		processor: proc,
		store:     st,
		hub:       newHub(),
		logger:    log,
		slots:     make(chan struct{}, opts.MaxConcurrent),
		baseCtx:   ctx,
		cancel:    cancel,
	}

	// Uploads above BodyLimit are streamed to disk by the multipart reader
	// instead of buffered; createJob enforces the limit on the file itself.
	s.app = fiber.New(fiber.Config{
		AppName:               "video-secretary",
		BodyLimit:             opts.MaxUploadBytes,
		StreamRequestBody:     true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.routes()
	return s
}

func (s *implServer) Listen(addr string) error {
	s.logger.Info(s.baseCtx, "HTTP server listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *implServer) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
	return err
}

// errorHandler renders every error as {"error": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
