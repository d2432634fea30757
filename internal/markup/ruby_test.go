package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteRuby(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "empty", in: "", want: ""},
		{name: "single", in: "a{{ruby|X}}b", want: `a\R[X]b`},
		{name: "adjacent", in: "{{ruby|X}}{{ruby|Y}}", want: `\R[X]\R[Y]`},
		{name: "unterminated", in: "a{{ruby|X", want: "a{{ruby|X"},
		{name: "unterminated after rewrite", in: "{{ruby|X}} {{ruby|Y", want: `\R[X] {{ruby|Y`},
		{name: "end marker before begin", in: "}}a{{ruby|X}}", want: `}}a\R[X]`},
		{name: "empty content", in: "{{ruby|}}", want: `\R[]`},
		{name: "nested begin is content", in: "{{ruby|a{{ruby|b}}c}}", want: `\R[a{{ruby|b]c}}`},
		{name: "multibyte", in: "東{{ruby|ひがし}}方", want: `東\R[ひがし]方`},
		{name: "already rewritten", in: `\R[X]`, want: `\R[X]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RewriteRuby(tt.in))
		})
	}
}

func TestRewriteRubyIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"a{{ruby|X}}b", "{{ruby|X}}{{ruby|Y}}", "plain"} {
		once := RewriteRuby(in)
		assert.Equal(t, once, RewriteRuby(once), in)
	}
}
