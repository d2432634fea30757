package lines

import (
	"strings"

	"github.com/meigma/tfcs/internal/markup"
)

// BalloonBreak is a bundle line that closes the current balloon.
const BalloonBreak = "<balloon>"

// DefaultMaxLines is the number of text lines a win message balloon holds.
const DefaultMaxLines = 3

// BalloonExpander splits a bundle into balloons.
//
// Every bundle line is ruby-rewritten. A BalloonBreak line closes the current
// balloon, and win message balloons also close after MaxLines lines. Each
// balloon keeps the seed's kind and ruby; its text is the newline-join of
// its lines. An empty bundle leaves the chain untouched.
type BalloonExpander struct {
	MaxLines int
}

// Expand implements Expander.
func (e BalloonExpander) Expand(c *Chain, bundle []string) {
	if c.Len() == 0 || len(bundle) == 0 {
		return
	}
	seed := c.At(0)
	limit := e.MaxLines
	if limit <= 0 {
		limit = DefaultMaxLines
	}

	var (
		out     []RenderLine
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		out = append(out, RenderLine{
			Kind: seed.Kind,
			Text: strings.Join(current, "\n"),
			Ruby: seed.Ruby,
		})
		current = current[:0]
	}

	for _, line := range bundle {
		if line == BalloonBreak {
			flush()
			continue
		}
		current = append(current, markup.RewriteRuby(line))
		if seed.Kind == KindWinMessage && len(current) == limit {
			flush()
		}
	}
	flush()

	if len(out) > 0 {
		c.Replace(out)
	}
}
