package container

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(length uint32) []byte {
	h := make([]byte, HeaderSize)
	h[0] = Marker
	binary.BigEndian.PutUint32(h[1:], length)
	return h
}

func build(t *testing.T, separator bool, payloads ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{Separator: separator})
	for _, p := range payloads {
		_, err := w.Append(p)
		require.NoError(t, err)
	}
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func TestReader_PreservesFrameOrder(t *testing.T) {
	payloads := [][]byte{[]byte("first"), []byte("second"), []byte("third")}
	for _, sep := range []bool{true, false} {
		buf := build(t, sep, payloads...)

		frames := NewReader(buf).Frames()
		require.Len(t, frames, 3)
		for i, f := range frames {
			assert.Equal(t, payloads[i], f.Payload)
			assert.Equal(t, uint32(len(payloads[i])), f.Length)
		}
	}
}

func TestReader_FrameOffsets(t *testing.T) {
	buf := build(t, true, []byte("ab"), []byte("cd"))

	frames := NewReader(buf).Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, HeaderSize, frames[0].Offset)
	// header + "ab" + separator + header
	assert.Equal(t, HeaderSize+2+1+HeaderSize, frames[1].Offset)
}

func TestReader_Empty(t *testing.T) {
	r := NewReader(nil)
	assert.False(t, r.Next())
	assert.Equal(t, Stats{}, r.Stats())
}

func TestReader_NoMarker(t *testing.T) {
	buf := bytes.Repeat([]byte{0x7f}, 64)

	r := NewReader(buf)
	assert.False(t, r.Next())
	assert.Equal(t, 64, r.Stats().SkippedBytes)
	assert.Equal(t, 0, r.Stats().Frames)
}

func TestReader_TruncatedHeaderKeepsPriorFrames(t *testing.T) {
	buf := build(t, true, []byte("valid"))
	buf = append(buf, Marker, 0x00, 0x00)

	var reasons []error
	r := NewReader(buf).OnDrop(func(_ int, reason error) {
		reasons = append(reasons, reason)
	})
	frames := r.Frames()

	require.Len(t, frames, 1)
	assert.Equal(t, []byte("valid"), frames[0].Payload)
	assert.True(t, r.Stats().Truncated)
	assert.Equal(t, []error{ErrTruncatedHeader}, reasons)
}

func TestReader_ZeroLengthSkipped(t *testing.T) {
	buf := append(header(0), build(t, false, []byte("after"))...)

	r := NewReader(buf)
	frames := r.Frames()

	require.Len(t, frames, 1)
	assert.Equal(t, []byte("after"), frames[0].Payload)
	assert.Equal(t, 1, r.Stats().ZeroLength)
	assert.Equal(t, 1, r.Stats().Dropped())
}

func TestReader_OverrunDoesNotFabricate(t *testing.T) {
	buf := append(header(1000), []byte("short")...)

	r := NewReader(buf)
	assert.Empty(t, r.Frames())
	assert.Equal(t, 1, r.Stats().Overruns)
}

func TestReader_OverrunResyncsAfterHeader(t *testing.T) {
	// The bogus header is followed by a well-formed frame; the scan
	// restarts right after the bogus header and finds it.
	valid := build(t, false, []byte("payload"))
	buf := append(header(0xFFFFFFF0), valid...)

	frames := NewReader(buf).Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, []byte("payload"), frames[0].Payload)
}

func TestReader_ResyncAfterGarbage(t *testing.T) {
	var buf []byte
	buf = append(buf, 0xde, 0xad, 0xbe, 0xef)
	buf = append(buf, build(t, true, []byte("one"))...)
	buf = append(buf, 0x42, 0x43)
	buf = append(buf, build(t, true, []byte("two"))...)

	r := NewReader(buf)
	frames := r.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []byte("one"), frames[0].Payload)
	assert.Equal(t, []byte("two"), frames[1].Payload)
	assert.Equal(t, 6, r.Stats().SkippedBytes)
}

func TestReader_SeparatorOptional(t *testing.T) {
	var buf []byte
	buf = append(buf, build(t, true, []byte("a"))...)
	buf = append(buf, build(t, false, []byte("b"))...)
	buf = append(buf, build(t, true, []byte("c"))...)

	frames := NewReader(buf).Frames()
	require.Len(t, frames, 3)
	assert.Equal(t, []byte("c"), frames[2].Payload)
}

func TestReader_PayloadDoesNotAliasBeyondFrame(t *testing.T) {
	buf := build(t, false, []byte("abc"), []byte("def"))
	frames := NewReader(buf).Frames()
	require.Len(t, frames, 2)

	assert.Equal(t, 3, cap(frames[0].Payload))
}
