package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func (s *implServer) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	api.Post("/jobs", s.createJob)
	api.Get("/jobs", s.listJobs)
	api.Get("/jobs/:id", s.getJob)
	api.Get("/jobs/:id/transcript", s.getTranscript)
	api.Get("/jobs/:id/summary", s.getSummary)
	api.Get("/jobs/:id/document", s.getDocument)

	// Middleware to require WebSocket upgrade on /ws
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/jobs/:id", websocket.New(s.streamJob))
}
