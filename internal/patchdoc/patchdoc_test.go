package patchdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/tfcs/internal/tfcstype"
)

func TestParse(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`{
		"0": {"0": "new1"},
		"12": {
			"1": ["a", 3, "b"],
			"2": 42,
			"lines": ["first", {"x": 1}, "second"],
			"is_subtitle": true,
			"comment": "ignored"
		},
		"0x10": {"is_subtitle": "yes"},
		"name": {"0": "ignored"},
		"5": "not an object"
	}`))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 12, 16}, doc.Rows())

	assert.Equal(t, Column{Text: "new1"}, doc.Row(0).Columns[0])
	assert.False(t, doc.Row(0).HasLines)

	r12 := doc.Row(12)
	require.NotNil(t, r12)
	assert.Equal(t, Column{List: []string{"a", "b"}, IsList: true}, r12.Columns[1])
	assert.NotContains(t, r12.Columns, 2)
	assert.True(t, r12.HasLines)
	assert.Equal(t, []string{"first", "second"}, r12.Lines)
	assert.True(t, r12.IsSubtitle)

	assert.False(t, doc.Row(16).IsSubtitle, "only literal true counts")
	assert.Nil(t, doc.Row(5))
	assert.Nil(t, doc.Row(99))
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	doc, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Nil(t, doc.Row(0))

	doc, err = Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`{"0":`, `[1,2]`, `"str"`} {
		_, err := Parse([]byte(in))
		require.ErrorIs(t, err, tfcstype.ErrInvalidPatch, in)
	}
}

func TestParseIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "0", want: 0, ok: true},
		{in: "42", want: 42, ok: true},
		{in: "0x1f", want: 31, ok: true},
		{in: "0X10", want: 16, ok: true},
		{in: "010", want: 10, ok: true},
		{in: "", ok: false},
		{in: "-1", ok: false},
		{in: "+1", ok: false},
		{in: "0x", ok: false},
		{in: "lines", ok: false},
		{in: "1_000", ok: false},
		{in: "99999999999", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseIndex(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
