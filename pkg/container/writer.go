package container

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// WriterConfig controls how frames are laid out.
type WriterConfig struct {
	Separator  bool // Append a separator byte after each payload
	BufferSize int  // Write buffer size (0 = bufio default)
}

// Writer appends frames to an io.Writer.
type Writer struct {
	writer *bufio.Writer
	config WriterConfig
	offset int64
}

// NewWriter creates a frame writer on top of w.
func NewWriter(w io.Writer, config WriterConfig) *Writer {
	size := config.BufferSize
	if size <= 0 {
		size = 4096
	}
	return &Writer{
		writer: bufio.NewWriterSize(w, size),
		config: config,
	}
}

// Append writes one frame and returns the offset of its marker.
func (w *Writer) Append(payload []byte) (int64, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return 0, ErrPayloadTooLarge
	}
	offset := w.offset

	var header [HeaderSize]byte
	header[0] = Marker
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.writer.Write(header[:]); err != nil {
		return 0, err
	}
	if _, err := w.writer.Write(payload); err != nil {
		return 0, err
	}
	w.offset += int64(HeaderSize + len(payload))

	if w.config.Separator {
		if err := w.writer.WriteByte(Separator); err != nil {
			return 0, err
		}
		w.offset++
	}
	return offset, nil
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.offset
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.writer.Flush()
}
