// Package patchdoc parses translator patch documents.
//
// A document is a JSON object keyed by row index. Each value is an object
// keyed by column index, holding either a string or a list of strings, plus
// the optional "lines" bundle and "is_subtitle" flag:
//
//	{
//	  "3": {"4": "Hello", "lines": ["first", "second"]},
//	  "7": {"0": ["line one", "line two"], "is_subtitle": true}
//	}
package patchdoc

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/meigma/tfcs/internal/tfcstype"
)

// Reserved row keys.
const (
	KeyLines      = "lines"
	KeyIsSubtitle = "is_subtitle"
)

// Document maps row indexes to their patches.
type Document map[int]*RowPatch

// Row returns the patch for row i, or nil.
func (d Document) Row(i int) *RowPatch {
	if d == nil {
		return nil
	}
	return d[i]
}

// Rows returns the patched row indexes in ascending order.
func (d Document) Rows() []int {
	return slices.Sorted(maps.Keys(d))
}

// RowPatch holds the replacements for one row.
type RowPatch struct {
	// Columns maps column indexes to replacement content.
	Columns map[int]Column

	// Lines is the multi-line text bundle used for balloon and subtitle
	// placement. HasLines reports whether the key was present at all.
	Lines    []string
	HasLines bool

	// IsSubtitle routes the lines bundle to the subtitle slots.
	IsSubtitle bool
}

// Column is a replacement for one column: either a literal string or a list
// of strings joined by newlines.
type Column struct {
	Text   string
	List   []string
	IsList bool
}

// Parse decodes a patch document. A nil or empty input yields a nil Document.
func Parse(data []byte) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", tfcstype.ErrInvalidPatch)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", tfcstype.ErrInvalidPatch, root.Type)
	}

	doc := make(Document)
	root.ForEach(func(key, value gjson.Result) bool {
		row, ok := ParseIndex(key.String())
		if !ok || !value.IsObject() {
			return true
		}
		doc[row] = parseRow(value)
		return true
	})
	return doc, nil
}

func parseRow(value gjson.Result) *RowPatch {
	rp := &RowPatch{Columns: make(map[int]Column)}
	value.ForEach(func(key, v gjson.Result) bool {
		switch k := key.String(); k {
		case KeyLines:
			rp.HasLines = true
			rp.Lines = stringList(v)
		case KeyIsSubtitle:
			rp.IsSubtitle = v.Type == gjson.True
		default:
			col, ok := ParseIndex(k)
			if !ok {
				return true
			}
			switch {
			case v.Type == gjson.String:
				rp.Columns[col] = Column{Text: v.String()}
			case v.IsArray():
				rp.Columns[col] = Column{List: stringList(v), IsList: true}
			}
		}
		return true
	})
	return rp
}

// stringList collects the string elements of an array, skipping anything else.
func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
		return true
	})
	return out
}

// ParseIndex converts a decimal or 0x-prefixed hexadecimal key to a
// non-negative index.
func ParseIndex(key string) (int, bool) {
	base := 10
	digits := key
	if len(key) > 2 && key[0] == '0' && (key[1] == 'x' || key[1] == 'X') {
		base = 16
		digits = key[2:]
	}
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, base, 31)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
