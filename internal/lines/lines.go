// Package lines expands a translator's line bundle into the ordered chain of
// text boxes written back into a message row.
package lines

import (
	"fmt"
	"iter"
)

// Kind identifies the flavor of a RenderLine.
type Kind uint8

const (
	// KindPlain is free text with no per-box line limit.
	KindPlain Kind = iota
	// KindWinMessage is a win-screen message balloon.
	KindWinMessage
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindWinMessage:
		return "win-message"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field indexes for RenderLine.Field.
const (
	FieldText = 0
	FieldRuby = 1
)

// RenderLine is one text box with its two output fields.
type RenderLine struct {
	Kind Kind
	Text string
	Ruby string
}

// Field returns field i: FieldText or FieldRuby. Other indexes yield "".
func (l RenderLine) Field(i int) string {
	switch i {
	case FieldText:
		return l.Text
	case FieldRuby:
		return l.Ruby
	default:
		return ""
	}
}

// Chain is an ordered sequence of RenderLines owned by its creator.
type Chain struct {
	lines []RenderLine
}

// NewChain returns a chain holding only seed.
func NewChain(seed RenderLine) *Chain {
	return &Chain{lines: []RenderLine{seed}}
}

// Len returns the number of lines in the chain.
func (c *Chain) Len() int {
	return len(c.lines)
}

// At returns line i.
func (c *Chain) At(i int) RenderLine {
	return c.lines[i]
}

// Replace swaps the chain's content for lines.
func (c *Chain) Replace(lines []RenderLine) {
	c.lines = append(c.lines[:0], lines...)
}

// All yields the lines in order with their position.
func (c *Chain) All() iter.Seq2[int, RenderLine] {
	return func(yield func(int, RenderLine) bool) {
		for i, l := range c.lines {
			if !yield(i, l) {
				return
			}
		}
	}
}

// Expander rewrites a chain from a lines bundle. Implementations own the
// line splitting and wrapping rules; the chain arrives holding a single seed
// line built from the row's original content.
type Expander interface {
	Expand(c *Chain, bundle []string)
}

// Resolve builds a chain seeded from seed and lets exp expand it against
// bundle.
func Resolve(seed RenderLine, bundle []string, exp Expander) *Chain {
	c := NewChain(seed)
	if exp != nil {
		exp.Expand(c, bundle)
	}
	return c
}
