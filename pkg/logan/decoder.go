package logan

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/ssargent/logan/pkg/codec"
	"github.com/ssargent/logan/pkg/container"
	"github.com/ssargent/logan/pkg/metrics"
)

// Decoder turns a raw container into decoded chunks, one per frame, in frame order.
type Decoder interface {
	DecodeContainer(buf []byte) ([][]byte, error)
}

// FrameDecoder scans a container with container.Reader and opens each frame
// with a FrameCodec. Frames that fail to open become placeholder chunks.
type FrameDecoder struct {
	codec   *codec.FrameCodec
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewFrameDecoder creates a decoder. logger and m may be zero/nil.
func NewFrameDecoder(c *codec.FrameCodec, logger zerolog.Logger, m *metrics.Metrics) *FrameDecoder {
	return &FrameDecoder{codec: c, logger: logger, metrics: m}
}

// DecodeContainer implements Decoder. It never fails on malformed input.
func (d *FrameDecoder) DecodeContainer(buf []byte) ([][]byte, error) {
	r := container.NewReader(buf).OnDrop(func(offset int, reason error) {
		d.logger.Debug().Int("offset", offset).Err(reason).Msg("frame dropped")
		d.metrics.RecordDrop(dropReason(reason))
	})

	var chunks [][]byte
	for r.Next() {
		f := r.Frame()
		data, err := d.codec.Decode(f.Payload)
		if err != nil {
			d.logger.Warn().Int("offset", f.Offset).Uint32("length", f.Length).Err(err).Msg("frame decode failed")
		}
		d.metrics.RecordFrame(err == nil)
		chunks = append(chunks, data)
	}

	stats := r.Stats()
	d.logger.Debug().
		Int("frames", stats.Frames).
		Int("dropped", stats.Dropped()).
		Int("skipped_bytes", stats.SkippedBytes).
		Msg("container scanned")
	return chunks, nil
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, container.ErrZeroLength):
		return "zero_length"
	case errors.Is(err, container.ErrLengthOverrun):
		return "overrun"
	case errors.Is(err, container.ErrTruncatedHeader):
		return "truncated"
	default:
		return "other"
	}
}
