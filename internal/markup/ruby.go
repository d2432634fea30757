// Package markup rewrites translator markup into the game's text syntax.
package markup

import "strings"

const (
	rubyBegin = "{{ruby|"
	rubyEnd   = "}}"
)

// RewriteRuby replaces every {{ruby|X}} annotation with \R[X].
//
// Scanning resumes after each inserted replacement, so rewritten output is
// never scanned again. An annotation without a closing }} ends the rewrite
// and is kept literally.
func RewriteRuby(s string) string {
	if !strings.Contains(s, rubyBegin) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		begin := strings.Index(s, rubyBegin)
		if begin < 0 {
			break
		}
		end := strings.Index(s[begin:], rubyEnd)
		if end < 0 {
			break
		}
		end += begin

		b.WriteString(s[:begin])
		b.WriteString(`\R[`)
		b.WriteString(s[begin+len(rubyBegin) : end])
		b.WriteString("]")
		s = s[end+len(rubyEnd):]
	}
	b.WriteString(s)
	return b.String()
}
