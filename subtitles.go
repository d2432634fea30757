package tfcs

import (
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/meigma/tfcs/internal/patchdoc"
	"github.com/meigma/tfcs/patchstack"
)

// PatchSubtitles patches buf with the subtitles document for fileName.
//
// Every row of the document is tagged as a subtitle row before it is handed
// to PatchTable, so its lines bundle lands in the subtitle slots whatever the
// configuration says. Without a subtitles resolver, or when the resolver has
// no document for fileName, buf is left alone.
func (p *Patcher) PatchSubtitles(buf []byte, sizeIn int, fileName string) (Result, error) {
	res := Result{Size: sizeIn}
	if p.subtitles == nil {
		return res, nil
	}

	raw, _, err := p.subtitles.Resolve(fileName)
	if err != nil {
		return res, fmt.Errorf("resolve subtitles for %s: %w", fileName, err)
	}
	if raw == nil {
		return res, nil
	}

	tagged, err := TagSubtitles(raw)
	if err != nil {
		return res, fmt.Errorf("%s: %w", fileName, err)
	}
	doc, err := patchdoc.Parse(tagged)
	if err != nil {
		return res, fmt.Errorf("%s: %w", fileName, err)
	}
	p.log().Debug("applying subtitles",
		slog.String("file", fileName),
		slog.Int("rows", len(doc)))
	return p.PatchTable(buf, sizeIn, fileName, doc)
}

// EstimateSubtitlesSize returns the extra bytes PatchSubtitles may need for
// fileName, or 0 when there is nothing to apply.
func (p *Patcher) EstimateSubtitlesSize(fileName string) int {
	if p.subtitles == nil {
		return 0
	}
	raw, size, err := p.subtitles.Resolve(fileName)
	if err != nil {
		p.log().Warn("TFCS: cannot resolve subtitles",
			slog.String("file", fileName),
			slog.String("error", err.Error()))
		return 0
	}
	if raw == nil {
		return 0
	}
	return p.EstimateSize(fileName, nil, size)
}

// TagSubtitles sets "is_subtitle": true on every object member of the JSON
// document doc. Members that are not objects are left as they are.
func TagSubtitles(doc []byte) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: subtitles document is not valid JSON", ErrInvalidPatch)
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: subtitles document is not an object", ErrInvalidPatch)
	}

	out := append([]byte(nil), doc...)
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		path := patchstack.EscapeKey(key.String()) + "." + patchdoc.KeyIsSubtitle
		out, err = sjson.SetBytes(out, path, true)
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("tag subtitles: %w", err)
	}
	return out, nil
}
