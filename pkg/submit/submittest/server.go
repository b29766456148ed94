// Package submittest provides an in-process submission collaborator for
// tests and dry runs.
package submittest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Request is one recorded submission.
type Request struct {
	RequestID   string
	ContentType string
	Payload     map[string]any
	Form        url.Values
	Raw         []byte
}

// Reply is what the fake collaborator answers.
type Reply struct {
	Status int
	Body   any
}

// Responder decides the reply for the n-th (1-based) request.
type Responder func(n int, req Request) Reply

// Accept acknowledges every request.
func Accept() Responder {
	return func(int, Request) Reply {
		return Reply{Status: http.StatusOK, Body: map[string]any{"success": true}}
	}
}

// Reject answers success=false to every request.
func Reject() Responder {
	return func(int, Request) Reply {
		return Reply{Status: http.StatusOK, Body: map[string]any{"success": false}}
	}
}

// Status answers with a bare status code and an error body.
func Status(code int) Responder {
	return func(int, Request) Reply {
		return Reply{Status: code, Body: map[string]any{"error": http.StatusText(code)}}
	}
}

// Sequence uses responders in order and repeats the last one.
func Sequence(responders ...Responder) Responder {
	return func(n int, req Request) Reply {
		if len(responders) == 0 {
			return Accept()(n, req)
		}
		idx := n - 1
		if idx >= len(responders) {
			idx = len(responders) - 1
		}
		return responders[idx](n, req)
	}
}

// Option customises a Server.
type Option func(*Server)

// WithResponder sets the reply policy. The default accepts everything.
func WithResponder(r Responder) Option {
	return func(s *Server) {
		if r != nil {
			s.responder = r
		}
	}
}

// WithPath mounts the handler on path instead of /api/submit.
func WithPath(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.path = path
		}
	}
}

// WithGate holds every request until gate is closed or receives a value.
func WithGate(gate <-chan struct{}) Option {
	return func(s *Server) {
		s.gate = gate
	}
}

// Server is a fake collaborator backed by httptest.
type Server struct {
	*httptest.Server

	path      string
	responder Responder
	gate      <-chan struct{}
	arrived   chan struct{}

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a fake collaborator. Callers must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{
		path:      "/api/submit",
		responder: Accept(),
		arrived:   make(chan struct{}, 64),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.Server = httptest.NewServer(s.Router())
	return s
}

// Router exposes the chi router so it can be mounted elsewhere.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.AllowContentType("application/json", "application/x-www-form-urlencoded"))
	r.Post(s.path, s.handleSubmit)
	return r
}

// Arrived signals each time a request reaches the handler, before any gate.
func (s *Server) Arrived() <-chan struct{} {
	return s.arrived
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Calls returns the number of requests received.
func (s *Server) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := Request{
		RequestID:   r.Header.Get("X-Request-ID"),
		ContentType: r.Header.Get("Content-Type"),
		Raw:         raw,
	}
	if strings.HasPrefix(rec.ContentType, "application/x-www-form-urlencoded") {
		rec.Form, _ = url.ParseQuery(string(raw))
	} else if err := json.Unmarshal(raw, &rec.Payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	n := len(s.requests)
	s.mu.Unlock()

	select {
	case s.arrived <- struct{}{}:
	default:
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-r.Context().Done():
			return
		}
	}

	reply := s.responder(n, rec)
	w.Header().Set("Content-Type", "application/json")
	if rec.RequestID != "" {
		w.Header().Set("X-Request-ID", rec.RequestID)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	switch body := reply.Body.(type) {
	case nil:
	case string:
		_, _ = io.WriteString(w, body)
	case []byte:
		_, _ = w.Write(body)
	default:
		_ = json.NewEncoder(w).Encode(body)
	}
}
