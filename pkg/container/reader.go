package container

import "encoding/binary"

// DropFunc observes a header the reader discarded. offset is the marker position.
type DropFunc func(offset int, reason error)

// Reader yields frames from an in-memory container in the order they appear.
type Reader struct {
	buf    []byte
	cursor int
	frame  Frame
	stats  Stats
	onDrop DropFunc
}

// NewReader creates a reader over buf. buf is not copied.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// OnDrop registers a callback invoked for every discarded header.
func (r *Reader) OnDrop(fn DropFunc) *Reader {
	r.onDrop = fn
	return r
}

// Next advances to the next frame. It returns false once the buffer is exhausted.
func (r *Reader) Next() bool {
	n := len(r.buf)
	for r.cursor < n {
		if r.buf[r.cursor] != Marker {
			r.cursor++
			r.stats.SkippedBytes++
			continue
		}

		start := r.cursor
		r.cursor++
		if r.cursor+4 > n {
			r.stats.Truncated = true
			r.drop(start, ErrTruncatedHeader)
			r.cursor = n
			return false
		}

		length := binary.BigEndian.Uint32(r.buf[r.cursor : r.cursor+4])
		r.cursor += 4

		if length == 0 {
			r.stats.ZeroLength++
			r.drop(start, ErrZeroLength)
			continue
		}
		if uint64(r.cursor)+uint64(length) > uint64(n) {
			r.stats.Overruns++
			r.drop(start, ErrLengthOverrun)
			continue
		}

		end := r.cursor + int(length)
		r.frame = Frame{
			Offset:  r.cursor,
			Length:  length,
			Payload: r.buf[r.cursor:end:end],
		}
		r.cursor = end
		if r.cursor < n && r.buf[r.cursor] == Separator {
			r.cursor++
		}
		r.stats.Frames++
		return true
	}
	return false
}

// Frame returns the frame found by the last successful call to Next.
func (r *Reader) Frame() Frame {
	return r.frame
}

// Offset returns the current scan position.
func (r *Reader) Offset() int {
	return r.cursor
}

// Stats returns counters accumulated so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Frames drains the reader and returns every remaining frame.
func (r *Reader) Frames() []Frame {
	var frames []Frame
	for r.Next() {
		frames = append(frames, r.frame)
	}
	return frames
}

func (r *Reader) drop(offset int, reason error) {
	if r.onDrop != nil {
		r.onDrop(offset, reason)
	}
}
