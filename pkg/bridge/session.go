package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/loom-ui/loom"
	"github.com/loom-ui/loom/pkg/wire"
)

// session is one connected client: a private runtime, its mutation buffer,
// and the WebSocket it streams batches to.
type session struct {
	srv  *Server
	conn *websocket.Conn
	rt   *loom.Runtime
	w    *wire.Writer
	log  *slog.Logger
}

func newSession(srv *Server, conn *websocket.Conn) *session {
	return &session{
		srv:  srv,
		conn: conn,
		rt:   loom.New(),
		w:    wire.NewWriter(make([]byte, srv.bufSize)),
		log:  srv.log.With("remote", conn.RemoteAddr().String()),
	}
}

// run mounts the root component, streams the create batch, then serves
// event frames until the connection closes.
func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	s.rt.Mount(s.srv.root, s.w)
	if err := s.flush(); err != nil {
		s.log.Error("initial batch write failed", "error", err)
		return
	}
	s.log.Info("session started")

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.log.Error("read error", "error", err)
			} else {
				s.log.Info("session closed")
			}
			return
		}

		frame, err := DecodeEventFrame(msg)
		if err != nil {
			s.srv.metrics.recordFrameError()
			s.log.Error("frame decode error", "error", err)
			continue
		}
		if err := s.handleEvent(ctx, frame); err != nil {
			s.log.Error("batch write failed", "error", err)
			return
		}
	}
}

// handleEvent dispatches one frame and streams the resulting mutations,
// if any.
func (s *session) handleEvent(ctx context.Context, frame EventFrame) error {
	event := frame.Type.Name()
	_, span := s.srv.tracer.Start(ctx, "bridge.dispatch", trace.WithAttributes(
		attribute.String("loom.event", event),
		attribute.Int64("loom.element", int64(frame.Element)),
	))
	defer span.End()

	start := time.Now()
	handled := s.rt.DispatchElement(frame.Element, event, frame.Payload)
	rendered := 0
	if handled {
		rendered = s.rt.RenderDirty(s.w)
	}
	s.srv.metrics.recordDispatch(event, handled, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Bool("loom.handled", handled),
		attribute.Int("loom.rendered", rendered),
	)

	if s.w.Pos() == 0 {
		return nil
	}
	return s.flush()
}

// flush terminates the pending batch, writes it as one binary message, and
// re-arms the buffer.
func (s *session) flush() error {
	s.w.End()
	batch := s.w.Bytes()
	s.srv.metrics.recordBatch(len(batch))
	err := s.conn.WriteMessage(websocket.BinaryMessage, batch)
	s.w.Seek(0)
	return err
}
