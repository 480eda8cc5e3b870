package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
)

const sessionBuffer = 64

type Session struct {
	messages chan string
	done     chan struct{}
	once     sync.Once
}

func newSession() *Session {
	return &Session{
		messages: make(chan string, sessionBuffer),
		done:     make(chan struct{}),
	}
}

// Send queues e for the client. It never blocks: events are dropped once the
// session is closed or its buffer is full.
func (s *Session) Send(e *Event) bool {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Error("encoding sse event", "topic", e.Topic, "name", e.Name, "err", err)
		return false
	}

	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.messages <- string(payload):
		return true
	default:
		log.Warn("sse session buffer full, dropping event", "topic", e.Topic, "name", e.Name)
		return false
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Session) listen(w http.ResponseWriter, r *http.Request) {
	defer s.close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case message := <-s.messages:
			fmt.Fprintf(w, "data: %s\n\n", message)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
