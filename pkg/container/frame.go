package container

import "errors"

const (
	// Marker starts every frame header.
	Marker byte = 0x01
	// Separator may follow a payload and is consumed when present.
	Separator byte = 0x00
	// HeaderSize is the marker byte plus the 4-byte length.
	HeaderSize = 5
)

var (
	ErrTruncatedHeader = errors.New("container: truncated frame header")
	ErrZeroLength      = errors.New("container: zero-length frame")
	ErrLengthOverrun   = errors.New("container: declared length overruns buffer")
	ErrPayloadTooLarge = errors.New("container: payload too large")
)

// Frame is one marker-delimited payload found in a container.
type Frame struct {
	Offset  int    // Byte offset of the payload within the buffer
	Length  uint32 // Declared payload length
	Payload []byte // Ciphertext; aliases the scanned buffer
}

// Stats counts what the reader skipped while scanning.
type Stats struct {
	Frames       int  // Frames yielded
	ZeroLength   int  // Headers declaring an empty payload
	Overruns     int  // Headers declaring more bytes than remain
	SkippedBytes int  // Non-marker bytes skipped during resync
	Truncated    bool // Scan stopped on a header cut short by end of buffer
}

// Dropped returns the number of headers that did not produce a frame.
func (s Stats) Dropped() int {
	n := s.ZeroLength + s.Overruns
	if s.Truncated {
		n++
	}
	return n
}
