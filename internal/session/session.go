// Package session implements the per-WebSocket-connection state machine:
// Unauthenticated/Authenticated, reader/writer goroutines over a
// coder/websocket connection dispatching internal/frame.Command against
// an internal/live.LiveBracket.
//
// coder/websocket has no grounding anywhere in the retrieved corpus;
// the reader-goroutine-plus-writer-goroutine-over-a-channel shape it's
// wired into here follows the same single-owner concurrency discipline
// as internal/live's actor loop (itself grounded on bureau's telemetry
// relay/service pair), applied to a connection instead of a bracket.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/dynamic-tournament/live-bracket/internal/auth"
	"github.com/dynamic-tournament/live-bracket/internal/frame"
	"github.com/dynamic-tournament/live-bracket/internal/live"
)

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 3 * time.Second
)

// Conn is the subset of *websocket.Conn a Session needs; narrowed for
// testability the way the teacher narrows collaborators to interfaces
// at package boundaries.
type Conn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
	Write(ctx context.Context, typ websocket.MessageType, data []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// Session owns one WebSocket connection's lifetime: Unauthenticated at
// construction, moving to Authenticated on a valid CommandAuthorize
// (spec §4.6).
type Session struct {
	conn    Conn
	bracket *live.LiveBracket
	signer  *auth.Signer
	logger  *slog.Logger
	now     func() time.Time
	authed  bool
}

// New builds a Session. The caller has already upgraded the HTTP
// request to conn and acquired bracket from the LiveRegistry; Run takes
// ownership of both for the connection's lifetime.
func New(conn Conn, bracket *live.LiveBracket, signer *auth.Signer, logger *slog.Logger) *Session {
	return &Session{conn: conn, bracket: bracket, signer: signer, logger: logger, now: time.Now}
}

// Run subscribes to the bracket, then drives the reader and writer
// halves concurrently until either the socket closes, a fatal transport
// error occurs, or ctx is canceled. It always releases the subscription
// before returning (spec §4.6's "on close, release the subscription").
func (s *Session) Run(ctx context.Context) {
	subID, snapshot, queue, err := s.bracket.Subscribe(ctx)
	if err != nil {
		return
	}
	defer s.bracket.Unsubscribe(subID)

	writeCtx, cancelWrite := context.WithCancel(ctx)
	defer cancelWrite()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(writeCtx, queue)
	}()

	s.sendEvent(ctx, frame.Event{Kind: frame.EventSyncState, Matches: snapshot})
	s.readLoop(ctx)

	cancelWrite()
	<-done
}

func (s *Session) writeLoop(ctx context.Context, queue live.EventQueue) {
	for {
		ev, ok := queue.Next(ctx)
		if !ok {
			return
		}
		if !s.sendEvent(ctx, ev) {
			return
		}
	}
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		readCtx, cancel := context.WithTimeout(ctx, readTimeout)
		typ, data, err := s.conn.Read(readCtx)
		cancel()
		if err != nil {
			if websocket.CloseStatus(err) == -1 {
				s.logger.Debug("session read failed", "error", err)
			}
			return
		}
		if typ != websocket.MessageBinary {
			// Spec's wire protocol is binary-only; a text frame decodes
			// as an unknown tag under the same Proto error path.
			s.sendEvent(ctx, frame.ErrorEvent(frame.ErrorProto))
			continue
		}

		cmd, err := frame.DecodeCommand(data)
		if err != nil {
			s.sendEvent(ctx, frame.ErrorEvent(frame.ErrorKindOf(err)))
			continue
		}

		s.dispatch(ctx, cmd)
	}
}

func (s *Session) dispatch(ctx context.Context, cmd frame.Command) {
	if cmd.Kind == frame.CommandAuthorize {
		claims, err := s.signer.Verify(cmd.Token, auth.TokenAuth, s.now())
		if err != nil {
			s.authed = false
			s.sendEvent(ctx, frame.ErrorEvent(frame.ErrorUnauthorized))
			return
		}
		s.authed = true
		s.logger.Debug("session authenticated", "subject", claims.Sub)
		return
	}

	ev, err := s.bracket.ApplyCommand(ctx, cmd, s.authed)
	if err != nil {
		return
	}
	if ev != nil {
		if !s.sendEvent(ctx, *ev) {
			return
		}
		if ev.Kind == frame.EventError && ev.ErrKind == frame.ErrorInternal {
			_ = s.conn.Close(websocket.StatusInternalError, "internal error")
		}
	}
}

func (s *Session) sendEvent(ctx context.Context, ev frame.Event) bool {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	err := s.conn.Write(writeCtx, websocket.MessageBinary, frame.EncodeEvent(ev))
	return err == nil || errors.Is(err, context.Canceled)
}
