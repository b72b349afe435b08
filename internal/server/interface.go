package server

import "context"

// Server is the HTTP front end: uploads, job status, downloads and a
// websocket progress stream.
type Server interface {
	Listen(addr string) error
	// Shutdown stops accepting requests, cancels running jobs and waits
	// for them to record their final state.
	Shutdown(ctx context.Context) error
}
