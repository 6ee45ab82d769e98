// Package bridge connects runtimes to browsers over WebSocket.
//
// Each connection gets its own runtime: the bridge mounts the configured
// root component, streams the create batch, then loops decoding event
// frames, dispatching them, and streaming the resulting mutation batches.
// HTTP routing is chi; the transport is gorilla/websocket.
package bridge

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/loom-ui/loom"
)

// DefaultBatchBuffer is the per-session mutation buffer size.
const DefaultBatchBuffer = 256 * 1024

// Server serves one root component to any number of WebSocket sessions.
type Server struct {
	root    loom.Component
	log     *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	bufSize int

	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMetrics attaches Prometheus instruments to the server.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithBatchBuffer sets the per-session mutation buffer size in bytes.
func WithBatchBuffer(n int) Option {
	return func(s *Server) {
		s.bufSize = n
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = check
	}
}

// NewServer returns a server rendering root for every session.
func NewServer(root loom.Component, opts ...Option) *Server {
	s := &Server{
		root:    root,
		log:     slog.Default(),
		tracer:  otel.Tracer("github.com/loom-ui/loom/pkg/bridge"),
		bufSize: DefaultBatchBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the server's HTTP routes: the WebSocket endpoint at /ws,
// a liveness probe at /healthz, and Prometheus exposition at /metrics.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}
	sess := newSession(s, conn)
	s.metrics.sessionOpened()
	defer s.metrics.sessionClosed()
	sess.run(r.Context())
}
