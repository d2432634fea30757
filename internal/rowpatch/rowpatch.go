// Package rowpatch applies a row patch to the decoded columns of one row.
//
// Two independent passes run on every patched row. Message rows carrying a
// lines bundle get their balloon or subtitle slots rewritten from the
// expanded line chain; then every column named in the patch is overridden.
package rowpatch

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/meigma/tfcs/internal/lines"
	"github.com/meigma/tfcs/internal/markup"
	"github.com/meigma/tfcs/internal/patchdoc"
)

// Column layout of message rows.
const (
	LegacyBase = 1
	ModernBase = 9

	// messageColumns is the minimum width of a message row past its base.
	messageColumns = 12

	MaxBalloons  = 3
	MaxSubtitles = 2
)

// Placement selects where a line chain is written.
type Placement uint8

const (
	// PlacementBalloon writes text and ruby into the dialogue balloons.
	PlacementBalloon Placement = iota
	// PlacementSubtitle writes text into the subtitle overlay slots.
	PlacementSubtitle
)

func (p Placement) String() string {
	switch p {
	case PlacementBalloon:
		return "balloon"
	case PlacementSubtitle:
		return "subtitle"
	default:
		return fmt.Sprintf("placement(%d)", uint8(p))
	}
}

// Settings are fixed for the lifetime of an Applier.
type Settings struct {
	// Legacy selects the TH145-and-earlier layout: balloons only, base 1.
	Legacy bool

	// MirrorSubtitles routes every lines bundle to the subtitle slots,
	// leaving the original balloons in place. It is set when subtitles are
	// supported and the subtitles setting is the literal true rather than a
	// separate patch stack.
	MirrorSubtitles bool
}

// Result describes what Apply changed.
type Result struct {
	Columns []string

	// Placed is the number of chain lines written to slots.
	Placed int

	// Dropped is the number of chain lines that did not fit any slot.
	Dropped int
}

// Applier rewrites rows. It is immutable and safe for concurrent use.
type Applier struct {
	settings Settings
	expander lines.Expander
	logger   *slog.Logger
}

// New returns an Applier. A nil expander disables chain expansion, so only
// the seed line is written back; a nil logger discards output.
func New(settings Settings, expander lines.Expander, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Applier{settings: settings, expander: expander, logger: logger}
}

// Placement returns where the lines bundle of rp goes and the layout base.
//
// Precedence matters: an explicit is_subtitle row wins, then subtitle
// mirroring, then balloons.
func (a *Applier) Placement(rp *patchdoc.RowPatch) (Placement, int) {
	switch {
	case a.settings.Legacy:
		return PlacementBalloon, LegacyBase
	case rp != nil && rp.IsSubtitle:
		return PlacementSubtitle, ModernBase
	case a.settings.MirrorSubtitles:
		return PlacementSubtitle, ModernBase
	default:
		return PlacementBalloon, ModernBase
	}
}

// Apply rewrites cols in place according to rp. row is only used for logging.
func (a *Applier) Apply(cols []string, rp *patchdoc.RowPatch, row int) Result {
	res := Result{Columns: cols}
	if rp == nil {
		return res
	}

	placement, base := a.Placement(rp)
	res.Placed, res.Dropped = a.placeLines(cols, rp, placement, base, row)
	OverrideColumns(cols, rp)
	return res
}

// placeLines writes the expanded chain into the message slots of a row of
// the recognized shape.
func (a *Applier) placeLines(cols []string, rp *patchdoc.RowPatch, placement Placement, base, row int) (placed, dropped int) {
	if !rp.HasLines || len(cols) < base+messageColumns || cols[base+3] == "" {
		return 0, 0
	}

	// Every slot is rewritten from the bundle, so only the first balloon
	// seeds the chain.
	seed := lines.RenderLine{
		Kind: lines.KindWinMessage,
		Text: cols[base+3],
		Ruby: cols[base+2],
	}
	chain := lines.Resolve(seed, rp.Lines, a.expander)

	for i, line := range chain.All() {
		if err := placement.write(cols, base, i, line); err != nil {
			dropped = chain.Len() - i
			a.logger.Warn("TFCS: dropping lines that do not fit the row",
				slog.Int("row", row),
				slog.String("placement", placement.String()),
				slog.Int("dropped", dropped),
				slog.String("reason", err.Error()))
			return placed, dropped
		}
		placed++
	}
	return placed, 0
}

// write stores line i of a chain in its slot.
func (p Placement) write(cols []string, base, i int, line lines.RenderLine) error {
	switch p {
	case PlacementSubtitle:
		if i >= MaxSubtitles {
			return fmt.Errorf("more than %d subtitles in a win line", MaxSubtitles)
		}
		slot := base + messageColumns + i
		if slot >= len(cols) {
			return fmt.Errorf("subtitle slot %d past column count %d", slot, len(cols))
		}
		cols[slot] = line.Field(lines.FieldText)
	default:
		if i >= MaxBalloons {
			return fmt.Errorf("more than %d balloons in a win line", MaxBalloons)
		}
		cols[base+4*i+3] = line.Field(lines.FieldText)
		cols[base+4*i+2] = line.Field(lines.FieldRuby)
	}
	return nil
}

// OverrideColumns replaces every column of cols named in rp. Strings are
// ruby-rewritten; lists become the newline-join of their rewritten items.
func OverrideColumns(cols []string, rp *patchdoc.RowPatch) {
	for i, col := range rp.Columns {
		if i < 0 || i >= len(cols) {
			continue
		}
		if !col.IsList {
			cols[i] = markup.RewriteRuby(col.Text)
			continue
		}
		var b strings.Builder
		for j, item := range col.List {
			if j > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(markup.RewriteRuby(item))
		}
		cols[i] = b.String()
	}
}
