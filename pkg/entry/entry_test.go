package entry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder_Shape(t *testing.T) {
	e := Placeholder(`Error: cipher "bad" input`)

	assert.Equal(t, PlaceholderFlag, e.Flag)
	assert.Zero(t, e.Time)
	assert.Zero(t, e.ThreadID)
	assert.Empty(t, e.Thread)
	assert.False(t, e.Main)
	assert.True(t, e.IsPlaceholder())

	inner := e.DecodeInner()
	assert.Equal(t, `Error: cipher "bad" input`, inner.Message)
	assert.Empty(t, inner.Component)
}

func TestPlaceholderLine_IsOneRecord(t *testing.T) {
	line := PlaceholderLine("line one\nline two }\n")

	tok := NewTokenizer(line, ModeStrict)
	require.True(t, tok.Next())
	assert.Equal(t, "line one\nline two }\n", tok.Entry().DecodeInner().Message)
	assert.False(t, tok.Next())
	assert.NoError(t, tok.Err())
}

func TestDecodeInner_NotJSON(t *testing.T) {
	e := Entry{Content: "plain text"}
	assert.Equal(t, Inner{Message: "plain text"}, e.DecodeInner())
}

func TestEntry_Line(t *testing.T) {
	e := Entry{Content: `{"m":"hi"}`, Flag: 3, Time: 1700000000000, Thread: "main", ThreadID: 1, Main: true}
	line, err := e.Line()
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), line[len(line)-1])

	var back Entry
	require.NoError(t, json.Unmarshal(line, &back))
	assert.Equal(t, e, back)
}

func TestEntry_UnmarshalLooseTypes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Entry
	}{
		{
			name: "float time and numeric main",
			raw:  `{"c":"x","f":3,"l":1700000000000.0,"n":"main","i":1,"m":1}`,
			want: Entry{Content: "x", Flag: 3, Time: 1700000000000, Thread: "main", ThreadID: 1, Main: true},
		},
		{
			name: "quoted numbers",
			raw:  `{"c":"x","f":"3","l":"1700000000000","i":"7","m":"true"}`,
			want: Entry{Content: "x", Flag: 3, Time: 1700000000000, ThreadID: 7, Main: true},
		},
		{
			name: "zero main and missing fields",
			raw:  `{"c":"x","m":0}`,
			want: Entry{Content: "x"},
		},
		{
			name: "object content and numeric thread",
			raw:  `{"c":{"m":"hi"},"f":3,"n":12}`,
			want: Entry{Content: `{"m":"hi"}`, Flag: 3, Thread: "12"},
		},
		{
			name: "null and unusable values",
			raw:  `{"c":null,"f":[1],"l":"soon","m":{}}`,
			want: Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Entry
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &e))
			assert.Equal(t, tt.want, e)
		})
	}
}

func TestEntry_UnmarshalObjectContentDecodes(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"c":{"fc":"App","m":"hi"},"f":3}`), &e))
	assert.Equal(t, "hi", e.DecodeInner().Message)
	assert.Equal(t, "App", e.DecodeInner().Component)
}

func TestEntry_UnmarshalRejectsBadSyntax(t *testing.T) {
	for _, raw := range []string{`{"c":broken}`, `{"c":"x"} trailing`, `{"c":"x",}`} {
		var e Entry
		assert.Error(t, json.Unmarshal([]byte(raw), &e), raw)
	}
}
