package server

import (
	"context"
	"errors"

	"github.com/gofiber/websocket/v2"
	"github.com/nguyentantai21042004/video-secretary/internal/store"
)

// streamJob sends the current job state, then every change until the job
// completes or fails or the client goes away.
func (s *implServer) streamJob(conn *websocket.Conn) {
	defer conn.Close()
	ctx := s.baseCtx
	id := conn.Params("id")

	events, unsubscribe := s.hub.subscribe(id)
	defer unsubscribe()

	job, err := s.store.GetJob(context.Background(), id)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, store.ErrNotFound) {
			msg = "job not found"
		}
		conn.WriteJSON(map[string]string{"error": msg})
		return
	}

	current := Event{JobID: job.ID, Status: job.Status, Step: job.Step, Progress: job.Progress, Error: job.Error}
	if err := conn.WriteJSON(current); err != nil || current.terminal() {
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	// The conn goes back to the pool when the handler returns, so the
	// reader has to be stopped first.
	defer func() {
		conn.Close()
		<-gone
	}()

	for {
		select {
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug(ctx, "Websocket for job %s closed: %v", id, err)
				return
			}
			if ev.terminal() {
				return
			}
		case <-gone:
			return
		case <-ctx.Done():
			return
		}
	}
}
