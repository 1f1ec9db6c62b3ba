// Package live implements the per-bracket actor (LiveBracket) and the
// process-wide LiveRegistry.
//
// Grounded on bureau's telemetry relay/service pair: a single goroutine
// owns all mutable state and reads a buffered inbox channel in a select
// loop (the relay buffer's single-writer discipline), and write-behind
// persistence is coalesced the way the relay's flush loop coalesces
// pending writes rather than issuing one per event; callers talk to the
// actor only through messages and reply channels, never through
// shared-memory locking.
package live

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/frame"
	"github.com/dynamic-tournament/live-bracket/internal/store"
)

// SubscriberID identifies one subscription to a LiveBracket.
type SubscriberID uuid.UUID

type msg interface{ isLiveMsg() }

type subscribeMsg struct {
	reply chan subscribeResult
}

func (subscribeMsg) isLiveMsg() {}

type subscribeResult struct {
	ID       SubscriberID
	Snapshot []bracket.Match
	Queue    EventQueue
}

type unsubscribeMsg struct {
	id SubscriberID
}

func (unsubscribeMsg) isLiveMsg() {}

type applyCommandMsg struct {
	cmd             frame.Command
	isAuthenticated bool
	reply           chan *frame.Event
}

func (applyCommandMsg) isLiveMsg() {}

type persistDoneMsg struct {
	err error
}

func (persistDoneMsg) isLiveMsg() {}

type shutdownMsg struct{}

func (shutdownMsg) isLiveMsg() {}

// LiveBracket owns one BracketState, serializes all mutations on its
// own goroutine, fans out events to subscribers, and write-behinds to
// Store (spec §4.4).
type LiveBracket struct {
	inbox chan msg

	ctx    context.Context
	cancel context.CancelFunc

	key          store.BracketKey
	systemID     uint64
	options      bracket.Options
	entrantOrder []bracket.EntrantRef

	state   *bracket.State
	adapter bracket.Adapter

	subscribers map[SubscriberID]*subscriberQueue

	store    store.Store
	logger   *slog.Logger
	queueCap int
	writing  bool
	dirty    bool
}

// newLiveBracket starts the actor goroutine and returns the handle.
// parent governs the actor's lifetime; canceling it (or sending
// shutdownMsg) stops the loop. queueCap sizes every subscriber's bounded
// queue; non-positive uses DefaultSubscriberQueueCap.
func newLiveBracket(parent context.Context, key store.BracketKey, record store.BracketRecord, adapter bracket.Adapter, st store.Store, logger *slog.Logger, queueCap int) *LiveBracket {
	ctx, cancel := context.WithCancel(parent)
	b := &LiveBracket{
		inbox:        make(chan msg, 64),
		ctx:          ctx,
		cancel:       cancel,
		key:          key,
		systemID:     record.SystemID,
		options:      record.Options,
		entrantOrder: record.EntrantOrder,
		state:        bracket.NewState(record.Matches),
		adapter:      adapter,
		subscribers:  make(map[SubscriberID]*subscriberQueue),
		store:        st,
		logger:       logger,
		queueCap:     queueCap,
	}
	go b.loop()
	return b
}

func (b *LiveBracket) loop() {
	persistDone := make(chan error, 1)
	for {
		select {
		case <-b.ctx.Done():
			b.shutdown()
			return

		case err := <-persistDone:
			b.writing = false
			if err != nil {
				b.logger.Error("persist bracket state failed",
					"tournament_id", b.key.TournamentID,
					"bracket_id", b.key.BracketID,
					"error", err)
			}
			if b.dirty {
				b.scheduleSave(persistDone)
			}

		case m := <-b.inbox:
			switch msg := m.(type) {
			case subscribeMsg:
				id := SubscriberID(uuid.New())
				q := newSubscriberQueue(b.queueCap)
				b.subscribers[id] = q
				msg.reply <- subscribeResult{ID: id, Snapshot: b.state.Snapshot(), Queue: q}

			case unsubscribeMsg:
				if q, ok := b.subscribers[msg.id]; ok {
					q.close()
					delete(b.subscribers, msg.id)
				}

			case applyCommandMsg:
				b.handleApplyCommand(msg.cmd, msg.isAuthenticated, msg.reply, persistDone)

			case shutdownMsg:
				b.shutdown()
				return
			}
		}
	}
}

func (b *LiveBracket) shutdown() {
	for id, q := range b.subscribers {
		q.close()
		delete(b.subscribers, id)
	}
	b.cancel()
}

func (b *LiveBracket) handleApplyCommand(cmd frame.Command, isAuthenticated bool, reply chan *frame.Event, persistDone chan error) {
	switch cmd.Kind {
	case frame.CommandSyncState:
		ev := frame.Event{Kind: frame.EventSyncState, Matches: b.state.Snapshot()}
		reply <- &ev
		return

	case frame.CommandUpdateMatch, frame.CommandResetMatch:
		if !isAuthenticated {
			ev := frame.ErrorEvent(frame.ErrorUnauthorized)
			reply <- &ev
			return
		}

	default:
		ev := frame.ErrorEvent(frame.ErrorProto)
		reply <- &ev
		return
	}

	var edits []bracket.Edit
	var err error
	var evKind frame.EventKind
	switch cmd.Kind {
	case frame.CommandUpdateMatch:
		edits, err = b.state.Update(b.adapter, cmd.Index, cmd.Nodes)
		evKind = frame.EventUpdateMatch
	case frame.CommandResetMatch:
		edits, err = b.state.Reset(b.adapter, cmd.Index)
		evKind = frame.EventResetMatch
	}

	if err != nil {
		ev := frame.ErrorEvent(errKindOf(err))
		reply <- &ev
		return
	}

	for _, e := range edits {
		b.broadcast(frame.Event{
			Kind:  evKind,
			Index: e.Index,
			Nodes: [2]bracket.EntrantScore{e.Match.Entrants[0].Data, e.Match.Entrants[1].Data},
		})
	}

	b.scheduleSave(persistDone)
	reply <- nil
}

func errKindOf(err error) frame.ErrorKind {
	if errors.Is(err, bracket.ErrIndexOutOfRange) || errors.Is(err, bracket.ErrProto) {
		return frame.ErrorProto
	}
	return frame.ErrorInternal
}

func (b *LiveBracket) broadcast(ev frame.Event) {
	for _, q := range b.subscribers {
		q.push(ev)
	}
}

// scheduleSave issues a Store write if none is in flight, or marks
// dirty so the in-flight write's completion triggers exactly one
// follow-up (spec §4.4's coalescing policy).
func (b *LiveBracket) scheduleSave(persistDone chan error) {
	if b.writing {
		b.dirty = true
		return
	}
	b.writing = true
	b.dirty = false

	record := store.BracketRecord{
		SystemID:     b.systemID,
		Options:      b.options,
		EntrantOrder: b.entrantOrder,
		Matches:      b.state.Snapshot(),
	}
	go func() {
		err := b.store.SaveBracketState(b.ctx, b.key, record)
		select {
		case persistDone <- err:
		case <-b.ctx.Done():
		}
	}()
}

// Subscribe registers a new subscriber and returns its current
// snapshot, id, and event queue atomically with respect to the actor's
// mutation order (spec §4.4).
func (b *LiveBracket) Subscribe(ctx context.Context) (SubscriberID, []bracket.Match, EventQueue, error) {
	reply := make(chan subscribeResult, 1)
	select {
	case b.inbox <- subscribeMsg{reply: reply}:
	case <-ctx.Done():
		return SubscriberID{}, nil, nil, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.ID, res.Snapshot, res.Queue, nil
	case <-ctx.Done():
		return SubscriberID{}, nil, nil, ctx.Err()
	}
}

// Unsubscribe removes id and drops its queue. Safe to call more than
// once for the same id.
func (b *LiveBracket) Unsubscribe(id SubscriberID) {
	select {
	case b.inbox <- unsubscribeMsg{id: id}:
	case <-b.ctx.Done():
	}
}

// ApplyCommand validates auth, mutates state, broadcasts, persists, and
// returns the direct reply (SyncState's snapshot, or an Error) — nil
// means the caller observes the effect only through its own
// subscription stream (spec §4.4).
func (b *LiveBracket) ApplyCommand(ctx context.Context, cmd frame.Command, isAuthenticated bool) (*frame.Event, error) {
	reply := make(chan *frame.Event, 1)
	select {
	case b.inbox <- applyCommandMsg{cmd: cmd, isAuthenticated: isAuthenticated, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case ev := <-reply:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the actor's goroutine and closes every subscriber
// queue. Idempotent.
func (b *LiveBracket) Shutdown() {
	select {
	case b.inbox <- shutdownMsg{}:
	default:
		b.cancel()
	}
}
