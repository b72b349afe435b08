package server

import (
	"sync"

	"github.com/nguyentantai21042004/video-secretary/internal/store"
)

const subscriberBuffer = 16

// Event is a job state change pushed to websocket subscribers.
type Event struct {
	JobID    string       `json:"job_id"`
	Status   store.Status `json:"status"`
	Step     string       `json:"step"`
	Progress float64      `json:"progress"`
	Error    string       `json:"error,omitempty"`
}

func (e Event) terminal() bool {
	return e.Status == store.StatusCompleted || e.Status == store.StatusFailed
}

// hub fans job events out to subscribers. A slow subscriber loses its
// oldest buffered events, never the newest.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan Event]struct{})}
}

func (h *hub) subscribe(jobID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[jobID] == nil {
		h.subs[jobID] = make(map[chan Event]struct{})
	}
	h.subs[jobID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[jobID], ch)
			if len(h.subs[jobID]) == 0 {
				delete(h.subs, jobID)
			}
			h.mu.Unlock()
		})
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[ev.JobID] {
		select {
		case ch <- ev:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}
