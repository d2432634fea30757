package patchstack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidJSON is returned when a layer document is not valid JSON.
var ErrInvalidJSON = errors.New("patchstack: invalid JSON")

// Merge merges src into dst recursively and returns the result.
//
// When both are objects, every key of src is merged into dst: nested objects
// merge, anything else from src overwrites. Otherwise src replaces dst.
// Neither input is modified.
func Merge(dst, src []byte) ([]byte, error) {
	if !gjson.ValidBytes(src) {
		return nil, ErrInvalidJSON
	}
	if len(dst) == 0 {
		return clone(src), nil
	}
	if !gjson.ValidBytes(dst) {
		return nil, ErrInvalidJSON
	}

	d := gjson.ParseBytes(dst)
	s := gjson.ParseBytes(src)
	if !d.IsObject() || !s.IsObject() {
		return clone(src), nil
	}

	out := clone(dst)
	var err error
	s.ForEach(func(key, value gjson.Result) bool {
		path := EscapeKey(key.String())
		raw := []byte(value.Raw)
		if cur := gjson.GetBytes(out, path); cur.IsObject() && value.IsObject() {
			if raw, err = Merge([]byte(cur.Raw), raw); err != nil {
				return false
			}
		}
		out, err = sjson.SetRawBytes(out, path, raw)
		if err != nil {
			err = fmt.Errorf("set %q: %w", key.String(), err)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EscapeKey escapes an object key for use as a single gjson/sjson path
// component.
func EscapeKey(key string) string {
	if !strings.ContainsAny(key, `.*?|#@\!=<>%:`) {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if strings.ContainsRune(`.*?|#@\!=<>%:`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
