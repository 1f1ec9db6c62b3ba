// Package wire implements the length-delimited binary primitives used by
// the live-bracket protocol: ULEB128/zigzag varints, booleans,
// length-prefixed sequences and UTF-8 strings.
package wire

import "errors"

// Sentinel errors mirror the ErrorKind taxonomy of spec §4.1/§4.2. Each
// is translated to the matching frame.ErrorKind by frame.ErrorKindOf
// before it is reported to a client.
var (
	ErrShortBuffer     = errors.New("wire: buffer ended before value was fully read")
	ErrIntOverflow     = errors.New("wire: varint exceeds width bound")
	ErrInvalidBool     = errors.New("wire: byte is not a valid bool")
	ErrInvalidUTF8     = errors.New("wire: string bytes are not valid UTF-8")
	ErrSeqTruncated    = errors.New("wire: sequence declared more elements than the buffer holds")
	ErrTrailingGarbage = errors.New("wire: buffer has unread trailing bytes")
)
