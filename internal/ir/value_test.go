package ir

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    IRValue
		expected string
	}{
		{"string", IRString("hello"), "hello"},
		{"empty string", IRString(""), ""},
		{"int", NewIRInt(42), "42"},
		{"negative int", NewIRInt(-100), "-100"},
		{"zero value int", IRInt{}, "0"},
		{"wide int", MustParseIRInt("3000000000000000000000"), "3000000000000000000000"},
		{"bool", IRBool(true), "true"},
		{"empty array", IRArray{}, ""},
		{"array", Ints(1, 2, 3), "1,2,3"},
		{"nested array", IRArray{Ints(1, 2), IRString("x")}, "1,2,x"},
		{"object", IRObject{"b": NewIRInt(1), "a": IRString("x")}, `{"a":"x","b":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonical(tt.input))
		})
	}
}

func TestCanonicalList(t *testing.T) {
	assert.Equal(t, []string{"1", "1", "2"}, CanonicalList(Ints(1, 1, 2)))

	empty := CanonicalList(IRArray{})
	require.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestParseIRInt(t *testing.T) {
	v, err := ParseIRInt(" 123456789012345678901234567890 ")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", v.String())

	_, fits := v.Int64()
	assert.False(t, fits)

	_, err = ParseIRInt("12.5")
	assert.Error(t, err)

	_, err = ParseIRInt("abc")
	assert.Error(t, err)
}

func TestIRIntIsImmutable(t *testing.T) {
	src := big.NewInt(7)
	v := NewIRBigInt(src)
	src.SetInt64(99)
	assert.Equal(t, "7", v.String(), "constructor must copy")

	b := v.Big()
	b.SetInt64(1)
	assert.Equal(t, "7", v.String(), "accessor must copy")
}

func TestAsHelpers(t *testing.T) {
	n, err := AsInt(NewIRInt(5))
	require.NoError(t, err)
	assert.Equal(t, "5", n.String())

	_, err = AsInt(IRString("5"))
	assert.EqualError(t, err, "expected integer, got string")

	s, err := AsString(IRString("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	_, err = AsString(Ints(1))
	assert.EqualError(t, err, "expected string, got sequence")

	ns, err := AsIntArray(Ints(3, 1))
	require.NoError(t, err)
	require.Len(t, ns, 2)
	assert.Equal(t, int64(3), ns[0].Int64())

	_, err = AsIntArray(IRArray{NewIRInt(1), IRString("x")})
	assert.EqualError(t, err, "element 1: expected integer, got string")
}

func TestUnmarshalIRValue(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(`[1, "two", [3000000000000000000000]]`))
	require.NoError(t, err)

	arr, ok := v.(IRArray)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Equal(t, "1", Canonical(arr[0]))
	assert.Equal(t, IRString("two"), arr[1])
	assert.Equal(t, "3000000000000000000000", Canonical(arr[2]))

	_, err = UnmarshalIRValue([]byte(`1.5`))
	assert.ErrorContains(t, err, "floats are forbidden")

	_, err = UnmarshalIRValue([]byte(`null`))
	assert.ErrorContains(t, err, "null is forbidden")
}

func TestIRIntJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		N IRInt `json:"n"`
	}{N: MustParseIRInt("1000000000000000000000")})
	require.NoError(t, err)
	assert.Equal(t, `{"n":1000000000000000000000}`, string(data))

	var decoded struct {
		N IRInt `json:"n"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1000000000000000000000", decoded.N.String())

	require.NoError(t, json.Unmarshal([]byte(`{"n":"42"}`), &decoded))
	assert.Equal(t, "42", decoded.N.String())
}

func TestMarshalIRValue(t *testing.T) {
	data, err := MarshalIRValue(IRArray{NewIRInt(1), IRString("<a>"), IRArray{}})
	require.NoError(t, err)
	assert.Equal(t, `[1,"<a>",[]]`, string(data))
}

func TestFromGo(t *testing.T) {
	v, err := FromGo([]any{1, int64(2), "x", map[string]any{"k": true}})
	require.NoError(t, err)
	assert.Equal(t, `1,2,x,{"k":true}`, Canonical(v))

	_, err = FromGo(2.5)
	assert.Error(t, err)

	_, err = FromGo([]any{nil})
	assert.ErrorContains(t, err, "array[0]")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "nothing", KindOf(nil))
	assert.Equal(t, "integer", KindOf(NewIRInt(1)))
	assert.Equal(t, "sequence", KindOf(IRArray{}))
	assert.Equal(t, "object", KindOf(IRObject{}))
}
