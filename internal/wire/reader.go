package wire

import "unicode/utf8"

// Reader consumes an encoded frame body sequentially.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// AtEnd reports whether every byte of the buffer has been consumed.
// Frame decoders call this after reading a value to reject trailing
// garbage.
func (r *Reader) AtEnd() bool { return r.pos == len(r.buf) }

func (r *Reader) U8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrShortBuffer
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) I8() (int8, error) {
	v, err := r.U8()
	return int8(v), err
}

func (r *Reader) Bool() (bool, error) {
	v, err := r.U8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

func (r *Reader) uvarint(maxBytes int) (uint64, error) {
	v, n, err := uvarint(r.buf[r.pos:], maxBytes)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

func (r *Reader) Uint16() (uint16, error) {
	v, err := r.uvarint(maxBytesU16)
	return uint16(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	v, err := r.uvarint(maxBytesU32)
	return uint32(v), err
}

func (r *Reader) Uint64() (uint64, error) {
	return r.uvarint(maxBytesU64)
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.uvarint(maxBytesU16)
	if err != nil {
		return 0, err
	}
	return unzigzag16(uint16(v)), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.uvarint(maxBytesU32)
	if err != nil {
		return 0, err
	}
	return unzigzag32(uint32(v)), nil
}

func (r *Reader) Int64() (int64, error) {
	v, err := r.uvarint(maxBytesU64)
	if err != nil {
		return 0, err
	}
	return unzigzag64(v), nil
}

// Bytes reads a u64 length prefix and returns that many raw bytes.
// ErrSeqTruncated is returned if the buffer does not hold the declared
// number of bytes.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint64()
	if err != nil {
		return nil, err
	}
	if uint64(r.Remaining()) < n {
		return nil, ErrSeqTruncated
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// String reads a length-prefixed byte sequence and validates it as
// UTF-8.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// SeqLen reads the u64 length prefix of a sequence. Callers decode each
// element themselves and should treat a length whose elements can't
// possibly fit in the remaining buffer as ErrSeqTruncated up front to
// avoid allocating an attacker-controlled slice length.
func (r *Reader) SeqLen(minElemSize int) (int, error) {
	n, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	if minElemSize > 0 && uint64(r.Remaining()) < n*uint64(minElemSize) {
		return 0, ErrSeqTruncated
	}
	return int(n), nil
}
