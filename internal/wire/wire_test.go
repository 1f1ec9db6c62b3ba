package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S1 from spec §8: encode u64(300) -> [0xAC, 0x02]; decode -> 300.
func TestUint64_S1Varint(t *testing.T) {
	w := NewWriter()
	w.PutUint64(300)
	require.Equal(t, []byte{0xAC, 0x02}, w.Bytes())

	r := NewReader([]byte{0xAC, 0x02})
	v, err := r.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
	require.True(t, r.AtEnd())
}

// S2 from spec §8: zigzag encodings of -1, 1, -2.
func TestInt64_S2Zigzag(t *testing.T) {
	cases := []struct {
		in   int64
		want []byte
	}{
		{-1, []byte{0x01}},
		{1, []byte{0x02}},
		{-2, []byte{0x03}},
	}
	for _, tc := range cases {
		w := NewWriter()
		w.PutInt64(tc.in)
		require.Equal(t, tc.want, w.Bytes(), "encode(%d)", tc.in)

		r := NewReader(tc.want)
		got, err := r.Int64()
		require.NoError(t, err)
		require.Equal(t, tc.in, got)
	}
}

func TestRoundTrip_Primitives(t *testing.T) {
	w := NewWriter()
	w.PutU8(0xAB)
	w.PutI8(-5)
	w.PutBool(true)
	w.PutBool(false)
	w.PutUint16(65535)
	w.PutUint32(4294967295)
	w.PutUint64(18446744073709551615)
	w.PutInt16(-32768)
	w.PutInt32(-2147483648)
	w.PutInt64(-9223372036854775808)
	w.PutString("hello world")

	r := NewReader(w.Bytes())

	u8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	i8, err := r.I8()
	require.NoError(t, err)
	require.Equal(t, int8(-5), i8)

	b1, err := r.Bool()
	require.NoError(t, err)
	require.True(t, b1)

	b2, err := r.Bool()
	require.NoError(t, err)
	require.False(t, b2)

	u16, err := r.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(65535), u16)

	u32, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(4294967295), u32)

	u64, err := r.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(18446744073709551615), u64)

	i16, err := r.Int16()
	require.NoError(t, err)
	require.Equal(t, int16(-32768), i16)

	i32, err := r.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(-2147483648), i32)

	i64, err := r.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(-9223372036854775808), i64)

	s, err := r.String()
	require.NoError(t, err)
	require.Equal(t, "hello world", s)

	require.True(t, r.AtEnd())
}

func TestBool_InvalidByteFails(t *testing.T) {
	r := NewReader([]byte{0x02})
	_, err := r.Bool()
	require.ErrorIs(t, err, ErrInvalidBool)
}

// Property 2 from spec §8: u64 overflow at 11+ continuation bytes, u32
// overflow at 6+.
func TestUvarint_OverflowBounds(t *testing.T) {
	allContinuation := func(n int) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = 0x80
		}
		return b
	}

	t.Run("u64 overflows at 11 bytes", func(t *testing.T) {
		r := NewReader(allContinuation(11))
		_, err := r.Uint64()
		require.ErrorIs(t, err, ErrIntOverflow)
	})

	t.Run("u64 accepts 10 terminating bytes", func(t *testing.T) {
		buf := allContinuation(9)
		buf = append(buf, 0x01)
		r := NewReader(buf)
		_, err := r.Uint64()
		require.NoError(t, err)
	})

	t.Run("u32 overflows at 6 bytes", func(t *testing.T) {
		r := NewReader(allContinuation(6))
		_, err := r.Uint32()
		require.ErrorIs(t, err, ErrIntOverflow)
	})

	t.Run("u32 accepts 5 terminating bytes", func(t *testing.T) {
		buf := allContinuation(4)
		buf = append(buf, 0x01)
		r := NewReader(buf)
		_, err := r.Uint32()
		require.NoError(t, err)
	})
}

func TestUvarint_NonCanonicalAccepted(t *testing.T) {
	// Zero encoded with trailing zero continuation groups is still
	// valid per spec §4.1 ("decoders MUST accept any well-formed
	// ULEB128 up to the width bound").
	r := NewReader([]byte{0x80, 0x80, 0x00})
	v, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0), v)
}

func TestString_InvalidUTF8Fails(t *testing.T) {
	w := NewWriter()
	w.PutBytes([]byte{0xff, 0xfe, 0xfd})
	r := NewReader(w.Bytes())
	_, err := r.String()
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestBytes_ShortBufferFails(t *testing.T) {
	w := NewWriter()
	w.PutUint64(10)
	w.buf = append(w.buf, []byte{1, 2, 3}...) // declare 10 bytes, supply 3
	r := NewReader(w.Bytes())
	_, err := r.Bytes()
	require.ErrorIs(t, err, ErrSeqTruncated)
}

func TestUint64_ShortBufferFails(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80})
	_, err := r.Uint64()
	require.ErrorIs(t, err, ErrShortBuffer)
}
