package session_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamic-tournament/live-bracket/internal/auth"
	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/bracket/system"
	"github.com/dynamic-tournament/live-bracket/internal/frame"
	"github.com/dynamic-tournament/live-bracket/internal/live"
	"github.com/dynamic-tournament/live-bracket/internal/session"
	"github.com/dynamic-tournament/live-bracket/internal/store"
	"github.com/dynamic-tournament/live-bracket/internal/store/memstore"
)

type fixedEntrants struct{}

func (fixedEntrants) EntrantsFor(ctx context.Context, key store.BracketKey) (uint64, []bracket.EntrantRef, bracket.Options, error) {
	return system.SystemIDSingleElimination, []bracket.EntrantRef{1, 2, 3, 4}, nil, nil
}

// fakeConn is an in-memory session.Conn: reads come from a
// preloaded queue, writes decode and accumulate for assertion, and
// unread calls block until the test's context is canceled.
type fakeConn struct {
	mu     sync.Mutex
	reads  [][]byte
	idx    int
	writes []frame.Event
	closed bool
}

func (c *fakeConn) Read(ctx context.Context) (websocket.MessageType, []byte, error) {
	c.mu.Lock()
	if c.idx < len(c.reads) {
		data := c.reads[c.idx]
		c.idx++
		c.mu.Unlock()
		return websocket.MessageBinary, data, nil
	}
	c.mu.Unlock()
	<-ctx.Done()
	return 0, nil, ctx.Err()
}

func (c *fakeConn) Write(ctx context.Context, typ websocket.MessageType, data []byte) error {
	ev, err := frame.DecodeEvent(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.writes = append(c.writes, ev)
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Close(code websocket.StatusCode, reason string) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) snapshot() []frame.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]frame.Event, len(c.writes))
	copy(out, c.writes)
	return out
}

func newTestBracket(t *testing.T) *live.LiveBracket {
	t.Helper()
	reg := live.NewRegistry(memstore.New(), system.NewRegistry(), fixedEntrants{}, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	h, err := reg.Acquire(context.Background(), store.BracketKey{TournamentID: 1, BracketID: 1})
	require.NoError(t, err)
	return h.Bracket()
}

func newTestSigner() *auth.Signer {
	return auth.NewSigner(jwt.SigningMethodHS256, []byte("auth-secret"), []byte("refresh-secret"), "live-bracket")
}

func TestSession_UnauthenticatedWriteIsRejectedWithoutMutatingState(t *testing.T) {
	b := newTestBracket(t)
	conn := &fakeConn{reads: [][]byte{
		frame.EncodeCommand(frame.Command{Kind: frame.CommandUpdateMatch, Index: 0}),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s := session.New(conn, b, newTestSigner(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	runUntilIdle(ctx, s, cancel, conn, 2)

	writes := conn.snapshot()
	require.Len(t, writes, 2)
	assert.Equal(t, frame.EventSyncState, writes[0].Kind)
	assert.Equal(t, frame.EventError, writes[1].Kind)
	assert.Equal(t, frame.ErrorUnauthorized, writes[1].ErrKind)
}

func TestSession_AuthorizeThenUpdateBroadcastsToSelf(t *testing.T) {
	b := newTestBracket(t)
	signer := newTestSigner()
	token, err := signer.Issue(auth.TokenAuth, 1, 0, time.Now(), time.Minute)
	require.NoError(t, err)

	conn := &fakeConn{reads: [][]byte{
		frame.EncodeCommand(frame.Command{Kind: frame.CommandAuthorize, Token: token}),
		frame.EncodeCommand(frame.Command{
			Kind:  frame.CommandUpdateMatch,
			Index: 0,
			Nodes: [2]bracket.EntrantScore{{Score: 1, Winner: true}, {}},
		}),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s := session.New(conn, b, signer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	runUntilIdle(ctx, s, cancel, conn, 3)

	// The winner of match 0 cascades into the final (match 2), so the
	// session sees the originating edit and the cascaded one.
	writes := conn.snapshot()
	require.Len(t, writes, 3)
	assert.Equal(t, frame.EventSyncState, writes[0].Kind)
	assert.Equal(t, frame.EventUpdateMatch, writes[1].Kind)
	assert.Equal(t, uint64(0), writes[1].Index)
	assert.Equal(t, frame.EventUpdateMatch, writes[2].Kind)
	assert.Equal(t, uint64(2), writes[2].Index)
}

func TestSession_MalformedFrameGetsProtoErrorAndStaysOpen(t *testing.T) {
	b := newTestBracket(t)
	conn := &fakeConn{reads: [][]byte{
		{0xFF}, // unknown command tag
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s := session.New(conn, b, newTestSigner(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	runUntilIdle(ctx, s, cancel, conn, 2)

	writes := conn.snapshot()
	require.Len(t, writes, 2)
	assert.Equal(t, frame.EventError, writes[1].Kind)
	assert.Equal(t, frame.ErrorProto, writes[1].ErrKind)
	assert.False(t, conn.closed, "recoverable codec errors must not close the connection")
}

// runUntilIdle runs the session in the background until conn has
// produced wantWrites writes (or the context expires), then cancels to
// unblock the session's final pending Read and waits for Run to return.
func runUntilIdle(ctx context.Context, s *session.Session, cancel context.CancelFunc, conn *fakeConn, wantWrites int) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(conn.snapshot()) >= wantWrites {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}
