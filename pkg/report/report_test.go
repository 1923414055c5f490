package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_SectionOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader("/tmp/out.txt"))
	require.NoError(t, w.WriteLine("body one"))
	require.NoError(t, w.WriteLine("body two"))
	require.NoError(t, w.WriteSections([]string{"sync line"}, []string{"error line"}))
	require.NoError(t, w.WriteStatistics(Statistics{OriginalSize: 2048, Duration: 1500 * time.Millisecond}))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "cat '/tmp/out.txt'\n\ngrep usage:"))

	order := []string{"grep usage:", "body one", "body two", "SYNC CENTER LOG FILTER", "sync line", "ERROR INFO", "error line", "FILE STATISTICS", "File size: 2.00 KB", "Processing time: 1.50 s"}
	last := -1
	for _, s := range order {
		idx := strings.Index(out, s)
		require.GreaterOrEqual(t, idx, 0, "missing %q", s)
		assert.Greater(t, idx, last, "%q out of order", s)
		last = idx
	}
	assert.Equal(t, 2, w.Lines())
}

func TestWriter_EmptyBody(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader("out"))
	require.NoError(t, w.WriteSections(nil, nil))
	require.NoError(t, w.WriteStatistics(Statistics{}))
	require.NoError(t, w.Close())

	assert.Contains(t, buf.String(), "Processing time: 0.00 s")
	assert.Zero(t, w.Lines())
}

func TestWriter_OutOfOrder(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	assert.ErrorIs(t, w.WriteLine("early"), ErrOutOfOrder)
	assert.ErrorIs(t, w.WriteStatistics(Statistics{}), ErrOutOfOrder)

	require.NoError(t, w.WriteHeader("out"))
	assert.ErrorIs(t, w.WriteHeader("out"), ErrOutOfOrder)
	require.NoError(t, w.WriteSections(nil, nil))
	assert.ErrorIs(t, w.WriteLine("late"), ErrOutOfOrder)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_PropagatesWriteError(t *testing.T) {
	w := NewWriter(failingWriter{})
	require.NoError(t, w.WriteHeader("out"))
	for i := 0; i < 2000; i++ {
		if err := w.WriteLine(strings.Repeat("x", 64)); err != nil {
			assert.EqualError(t, err, "disk full")
			return
		}
	}
	assert.EqualError(t, w.Close(), "disk full")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 << 30, "3.00 GB"},
		{2 << 40, "2.00 TB"},
		{5000 << 40, "5000.00 TB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.n))
		})
	}
}
