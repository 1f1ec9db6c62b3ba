package frame

import (
	"errors"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/wire"
)

// ErrUnknownCommandTag is returned by DecodeCommand when the leading tag
// byte does not name a known Command variant (spec §4.1: unknown tags on
// the request path fail with Proto).
var ErrUnknownCommandTag = errors.New("frame: unknown command tag")

// ErrorKindOf maps a decode error from internal/wire to the ErrorKind
// reported back to the client. Any error not recognized here is treated
// as Internal.
func ErrorKindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, wire.ErrInvalidBool):
		return ErrorProtoInvalidVariant
	case errors.Is(err, wire.ErrInvalidUTF8):
		return ErrorProtoInvalidStr
	case errors.Is(err, wire.ErrSeqTruncated):
		return ErrorProtoInvalidSeq
	case errors.Is(err, wire.ErrIntOverflow):
		return ErrorProtoIntOverflow
	case errors.Is(err, ErrUnknownCommandTag):
		return ErrorProto
	case errors.Is(err, wire.ErrShortBuffer), errors.Is(err, wire.ErrTrailingGarbage):
		return ErrorProto
	default:
		return ErrorInternal
	}
}

func putEntrantScore(w *wire.Writer, s bracket.EntrantScore) {
	w.PutUint64(s.Score)
	w.PutBool(s.Winner)
}

func getEntrantScore(r *wire.Reader) (bracket.EntrantScore, error) {
	score, err := r.Uint64()
	if err != nil {
		return bracket.EntrantScore{}, err
	}
	winner, err := r.Bool()
	if err != nil {
		return bracket.EntrantScore{}, err
	}
	return bracket.EntrantScore{Score: score, Winner: winner}, nil
}

func putEntrantSpot(w *wire.Writer, s bracket.EntrantSpot) {
	w.PutU8(uint8(s.Kind))
	if s.Kind == bracket.SpotEntrant {
		w.PutUint64(uint64(s.Index))
		putEntrantScore(w, s.Data)
	}
}

func getEntrantSpot(r *wire.Reader) (bracket.EntrantSpot, error) {
	tag, err := r.U8()
	if err != nil {
		return bracket.EntrantSpot{}, err
	}
	switch bracket.SpotKind(tag) {
	case bracket.SpotEmpty:
		return bracket.Empty(), nil
	case bracket.SpotTBD:
		return bracket.TBD(), nil
	case bracket.SpotEntrant:
		idx, err := r.Uint64()
		if err != nil {
			return bracket.EntrantSpot{}, err
		}
		data, err := getEntrantScore(r)
		if err != nil {
			return bracket.EntrantSpot{}, err
		}
		return bracket.EntrantSpot{Kind: bracket.SpotEntrant, Index: bracket.EntrantRef(idx), Data: data}, nil
	default:
		return bracket.EntrantSpot{}, wire.ErrInvalidBool
	}
}

func putMatch(w *wire.Writer, m bracket.Match) {
	putEntrantSpot(w, m.Entrants[0])
	putEntrantSpot(w, m.Entrants[1])
}

func getMatch(r *wire.Reader) (bracket.Match, error) {
	var m bracket.Match
	a, err := getEntrantSpot(r)
	if err != nil {
		return m, err
	}
	b, err := getEntrantSpot(r)
	if err != nil {
		return m, err
	}
	m.Entrants[0], m.Entrants[1] = a, b
	return m, nil
}

// EncodeCommand serializes cmd as one Frame body: a tag byte followed by
// the variant's fields, per spec §4.2.
func EncodeCommand(cmd Command) []byte {
	w := wire.NewWriter()
	w.PutU8(uint8(cmd.Kind))
	switch cmd.Kind {
	case CommandAuthorize:
		w.PutString(cmd.Token)
	case CommandUpdateMatch:
		w.PutUint64(cmd.Index)
		putEntrantScore(w, cmd.Nodes[0])
		putEntrantScore(w, cmd.Nodes[1])
	case CommandResetMatch:
		w.PutUint64(cmd.Index)
	case CommandSyncState, CommandReserved:
		// bodiless
	}
	return w.Bytes()
}

// DecodeCommand parses one WebSocket message as a Command. It rejects
// trailing bytes and unknown tags (spec §4.1).
func DecodeCommand(buf []byte) (Command, error) {
	r := wire.NewReader(buf)
	tag, err := r.U8()
	if err != nil {
		return Command{}, err
	}

	cmd := Command{Kind: CommandKind(tag)}
	switch cmd.Kind {
	case CommandAuthorize:
		cmd.Token, err = r.String()
	case CommandUpdateMatch:
		if cmd.Index, err = r.Uint64(); err == nil {
			if cmd.Nodes[0], err = getEntrantScore(r); err == nil {
				cmd.Nodes[1], err = getEntrantScore(r)
			}
		}
	case CommandResetMatch:
		cmd.Index, err = r.Uint64()
	case CommandSyncState, CommandReserved:
		// bodiless
	default:
		return Command{}, ErrUnknownCommandTag
	}
	if err != nil {
		return Command{}, err
	}
	if !r.AtEnd() {
		return Command{}, wire.ErrTrailingGarbage
	}
	return cmd, nil
}

// EncodeEvent serializes ev as one Frame body, per spec §4.2. Unlike
// DecodeCommand, an encoder never fails: Event values are always
// produced internally from valid state.
func EncodeEvent(ev Event) []byte {
	w := wire.NewWriter()
	w.PutU8(uint8(ev.Kind))
	switch ev.Kind {
	case EventError:
		w.PutU8(uint8(ev.ErrKind))
	case EventSyncState:
		w.PutSeqLen(len(ev.Matches))
		for _, m := range ev.Matches {
			putMatch(w, m)
		}
	case EventUpdateMatch, EventResetMatch:
		w.PutUint64(ev.Index)
		putEntrantScore(w, ev.Nodes[0])
		putEntrantScore(w, ev.Nodes[1])
	case EventReserved:
		// bodiless
	}
	return w.Bytes()
}

// DecodeEvent parses one WebSocket message as an Event. Clients decode
// with this; an unknown tag is skipped rather than treated as an error,
// per spec §4.1's forward-compatibility rule for the event path — the
// returned Event carries the unknown Kind with a nil error, and callers
// ignore any Kind they do not recognize.
func DecodeEvent(buf []byte) (Event, error) {
	r := wire.NewReader(buf)
	tag, err := r.U8()
	if err != nil {
		return Event{}, err
	}

	ev := Event{Kind: EventKind(tag)}
	switch ev.Kind {
	case EventError:
		k, err := r.U8()
		if err != nil {
			return Event{}, err
		}
		ev.ErrKind = ErrorKind(k)
	case EventSyncState:
		n, err := r.SeqLen(2)
		if err != nil {
			return Event{}, err
		}
		ev.Matches = make([]bracket.Match, 0, n)
		for i := 0; i < n; i++ {
			m, err := getMatch(r)
			if err != nil {
				return Event{}, err
			}
			ev.Matches = append(ev.Matches, m)
		}
	case EventUpdateMatch, EventResetMatch:
		if ev.Index, err = r.Uint64(); err == nil {
			if ev.Nodes[0], err = getEntrantScore(r); err == nil {
				ev.Nodes[1], err = getEntrantScore(r)
			}
		}
		if err != nil {
			return Event{}, err
		}
	case EventReserved:
		// bodiless
	default:
		// Unknown event tag: forward-compatible skip, not an error.
		// The caller is expected to check Kind against the known
		// constants and ignore anything else.
		return ev, nil
	}
	if !r.AtEnd() {
		return Event{}, wire.ErrTrailingGarbage
	}
	return ev, nil
}
