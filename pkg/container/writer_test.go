package container

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Layout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{Separator: true})

	off, err := w.Append([]byte{0xAA, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, int64(0), off)

	off, err = w.Append([]byte{0xCC})
	require.NoError(t, err)
	assert.Equal(t, int64(8), off)
	require.NoError(t, w.Flush())

	want := []byte{
		Marker, 0, 0, 0, 2, 0xAA, 0xBB, Separator,
		Marker, 0, 0, 0, 1, 0xCC, Separator,
	}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, int64(len(want)), w.Offset())
}
