package sse

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type Server struct {
	mux sync.RWMutex
	// NewSessionHandler may refuse the connection by returning an error,
	// which is answered with 400 before the stream starts.
	NewSessionHandler   func(id string, session *Session, r *http.Request) error
	CloseSessionHandler func(id string, session *Session)
	sessions            map[string]*Session
}

func New() *Server {
	return &Server{
		sessions: make(map[string]*Session),
	}
}

func (s *Server) HandleFunc() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, err := gonanoid.New()
		if err != nil {
			log.Error("generating sse session id", "err", err)
			http.Error(w, "Internal server error.", http.StatusInternalServerError)
			return
		}

		session := newSession()

		if s.NewSessionHandler != nil {
			if err := s.NewSessionHandler(id, session, r); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		s.mux.Lock()
		s.sessions[id] = session
		s.mux.Unlock()

		log.Debug("sse session opened", "session", id)

		session.Send(&Event{
			Topic: SYSSessionTopic,
			Name:  SYSSessionCreated,
			Data:  id,
		})

		session.listen(w, r)

		s.mux.Lock()
		delete(s.sessions, id)
		s.mux.Unlock()

		if s.CloseSessionHandler != nil {
			s.CloseSessionHandler(id, session)
		}

		log.Debug("sse session closed", "session", id)
	}
}

func (s *Server) Get(id string) (*Session, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	session, ok := s.sessions[id]

	return session, ok
}

func (s *Server) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return len(s.sessions)
}
