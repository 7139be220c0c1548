package resp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Value
	}{
		{"simple string", "+OK\r\n", SimpleString("OK")},
		{"simple error", "-ERR bad\r\n", SimpleError("ERR bad")},
		{"integer", ":42\r\n", Integer(42)},
		{"negative integer", ":-7\r\n", Integer(-7)},
		{"null bulk", "$-1\r\n", Null()},
		{"null array", "*-1\r\n", Null()},
		{"null underscore", "_\r\n", Null()},
		{"empty bulk", "$0\r\n\r\n", BulkString([]byte{})},
		{"empty array", "*0\r\n", Array(nil)},
		{"boolean true", "#t\r\n", Boolean(true)},
		{"boolean false", "#F\r\n", Boolean(false)},
		{"double", ",3.14\r\n", Double(3.14)},
		{"double inf", ",inf\r\n", Double(math.Inf(1))},
		{"big number", "(3492890328409238509324850943850943825024392\r\n",
			BigNumber("3492890328409238509324850943850943825024392")},
		{"verbatim", "=9\r\ntxt:hello\r\n", VerbatimString("txt", "hello")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, next, err := Parse([]byte(tc.in), 0)
			require.NoError(t, err)
			require.Equal(t, len(tc.in), next)
			require.True(t, tc.want.Equal(got), "got %+v want %+v", got, tc.want)
		})
	}
}

func TestParseDoubleNaN(t *testing.T) {
	v, _, err := Parse([]byte(",nan\r\n"), 0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(v.Double))
	require.False(t, v.Equal(v), "NaN must not equal itself")
	require.Equal(t, v.HashKey(), v.HashKey(), "NaN must hash identically to itself")
}

func TestParseArrayWithNull(t *testing.T) {
	in := "*3\r\n$3\r\nkey\r\n$-1\r\n$5\r\nhello\r\n"
	v, next, err := Parse([]byte(in), 0)
	require.NoError(t, err)
	require.Equal(t, len(in), next)
	require.Equal(t, []string{"key", "", "hello"}, v.ToFlatList())
}

func TestParseMap(t *testing.T) {
	in := "%2\r\n+server\r\n+valkey\r\n+version\r\n+8.0.1\r\n"
	v, next, err := Parse([]byte(in), 0)
	require.NoError(t, err)
	require.Equal(t, len(in), next)
	require.Equal(t, KindMap, v.Kind)
	require.Len(t, v.Pairs, 2)
	// Display concatenates children's wire form.
	require.Equal(t, "+server\r\n+valkey\r\n+version\r\n+8.0.1\r\n", v.String())
}

func TestParseSetDedup(t *testing.T) {
	in := "~3\r\n$5\r\nhello\r\n$5\r\nworld\r\n$5\r\nworld\r\n"
	v, _, err := Parse([]byte(in), 0)
	require.NoError(t, err)
	require.Equal(t, KindSet, v.Kind)
	require.Len(t, v.Items, 2)
	require.Equal(t, "~2\r\n$5\r\nhello\r\n$5\r\nworld\r\n", string(v.ToResp()))
}

func TestParseUnknownType(t *testing.T) {
	_, _, err := Parse([]byte("@bad\r\n"), 0)
	require.Error(t, err)
	var m *MalformedError
	require.ErrorAs(t, err, &m)
	require.Equal(t, "resp: malformed: unknown RESP type", err.Error())
}

func TestParseIncompletePrefixes(t *testing.T) {
	full := []byte("$5\r\nhello\r\n")
	for i := 0; i < len(full); i++ {
		_, _, err := Parse(full[:i], 0)
		require.ErrorIs(t, err, ErrIncomplete, "prefix length %d", i)
	}
	v, next, err := Parse(full, 0)
	require.NoError(t, err)
	require.Equal(t, len(full), next)
	require.Equal(t, "hello", v.String())
}

func TestParseIncompleteThenComplete(t *testing.T) {
	partial := []byte("$5\r\nhel")
	_, _, err := Parse(partial, 0)
	require.ErrorIs(t, err, ErrIncomplete)

	full := append(partial, []byte("lo\r\n")...)
	v, next, err := Parse(full, 0)
	require.NoError(t, err)
	require.Equal(t, len(full), next)
	require.Equal(t, "hello", v.String())
}

func TestRoundtripSimpleScalars(t *testing.T) {
	values := []Value{
		SimpleString("OK"),
		SimpleError("ERR oops"),
		Integer(123456789),
		Integer(-1),
		Boolean(true),
		Boolean(false),
		Double(2.5),
		BigNumber("123456789012345678901234567890"),
		BulkString([]byte("hello")),
		BulkString([]byte{}),
		BulkError([]byte("bad arg")),
		Array([]Value{Integer(1), Integer(2), BulkString([]byte("x"))}),
		Null(),
	}
	for _, v := range values {
		encoded := v.ToResp()
		got, next, err := Parse(encoded, 0)
		require.NoError(t, err)
		require.Equal(t, len(encoded), next)
		require.Equal(t, encoded, got.ToResp(), "re-encoding must be byte-identical for %+v", v)
	}
}
