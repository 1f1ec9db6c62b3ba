package wire

// Writer accumulates an encoded frame body. The zero value is ready to
// use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer whose buffer starts with a 64-byte capacity.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated buffer. The caller must not retain and
// mutate a reference to the Writer after calling Bytes.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) PutU8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) PutI8(v int8) { w.buf = append(w.buf, byte(v)) }

func (w *Writer) PutBool(v bool) {
	if v {
		w.buf = append(w.buf, 0x01)
	} else {
		w.buf = append(w.buf, 0x00)
	}
}

func (w *Writer) PutUint16(v uint16) { w.buf = putUvarint(w.buf, uint64(v)) }
func (w *Writer) PutUint32(v uint32) { w.buf = putUvarint(w.buf, uint64(v)) }
func (w *Writer) PutUint64(v uint64) { w.buf = putUvarint(w.buf, v) }

func (w *Writer) PutInt16(v int16) { w.buf = putUvarint(w.buf, uint64(zigzag16(v))) }
func (w *Writer) PutInt32(v int32) { w.buf = putUvarint(w.buf, uint64(zigzag32(v))) }
func (w *Writer) PutInt64(v int64) { w.buf = putUvarint(w.buf, zigzag64(v)) }

// PutBytes writes a u64 length prefix followed by the raw bytes, the
// shared encoding for both sequences and strings.
func (w *Writer) PutBytes(b []byte) {
	w.PutUint64(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// PutString writes a string as a length-prefixed UTF-8 byte sequence.
// It does not validate s; Go strings built from string literals or
// prior successful decodes are always valid UTF-8, and callers
// constructing one from untrusted bytes should use string(b) only after
// Reader.String has validated those bytes on the way in.
func (w *Writer) PutString(s string) { w.PutBytes([]byte(s)) }

// PutSeqLen writes the u64 length prefix of a sequence; the caller
// encodes each element itself.
func (w *Writer) PutSeqLen(n int) { w.PutUint64(uint64(n)) }
