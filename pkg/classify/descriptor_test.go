package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSet_CollapsesDuplicates(t *testing.T) {
	s := NewErrorSet()
	d := ErrorDescriptor{Type: "Stress(18)", Code: "TIMEOUT", ErrorType: ErrorTypeHeader}

	assert.True(t, s.Add(d))
	assert.False(t, s.Add(ErrorDescriptor{Type: "Stress(18)", Code: "TIMEOUT", ErrorType: ErrorTypeHeader}))
	assert.Equal(t, 1, s.Len())
}

func TestErrorSet_FieldsDistinguish(t *testing.T) {
	s := NewErrorSet()
	s.Add(ErrorDescriptor{Code: "X", ErrorType: ErrorTypeData})
	s.Add(ErrorDescriptor{Type: "X", ErrorType: ErrorTypeData})
	s.Add(ErrorDescriptor{Code: "X", ErrorType: ErrorTypeHeader})
	assert.Equal(t, 3, s.Len())
}

func TestErrorSet_DigestIgnoresOrder(t *testing.T) {
	a, b := NewErrorSet(), NewErrorSet()
	d1 := ErrorDescriptor{Type: "PAI(13)", ErrorType: ErrorTypeFuture}
	d2 := ErrorDescriptor{Code: "FAIL", ErrorType: ErrorTypeData}

	a.Add(d1)
	a.Add(d2)
	b.Add(d2)
	b.Add(d1)
	b.Add(d1)

	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 64)
}

func TestErrorSet_EmptyJSON(t *testing.T) {
	raw, err := NewErrorSet().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	canonical, err := NewErrorSet().Canonical()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(canonical))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Heart rate(2)", TypeName("2"))
	assert.Equal(t, "打点数据(44)", TypeName("44"))
	assert.Equal(t, "ECGsummary(42)", TypeName("42"))
	assert.Equal(t, "睡眠结果(72)", TypeName("72"))
	assert.Equal(t, "EDA raw data(84)", TypeName("84"))
	assert.Equal(t, "200(200)", TypeName("200"))
	assert.Equal(t, "abc(abc)", TypeName("abc"))
}

func TestIsExempt(t *testing.T) {
	assert.True(t, IsExempt("44"))
	assert.False(t, IsExempt("19"))
	assert.False(t, IsExempt("x"))
}

func TestErrorSet_JSONKeepsMessageText(t *testing.T) {
	s := NewErrorSet()
	s.Add(ErrorDescriptor{Type: "Heart rate(2)", ErrorType: "transfer stopped", Code: "timeout <5s> & retry"})

	raw, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "timeout <5s> & retry")
	assert.NotContains(t, string(raw), `\u003c`)
	assert.NotContains(t, string(raw), `\u0026`)
	assert.NotEqual(t, byte('\n'), raw[len(raw)-1])

	canonical, err := s.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(canonical), "timeout <5s> & retry")
}
