package tfcs

import (
	"log/slog"

	"github.com/meigma/tfcs/internal/sizing"
)

// Room reserved on top of the scaled patch size for the header and
// compression overhead.
const estimateSlack = 2048 + 1

// EstimateSize returns how many bytes the loader should add to fileName's
// buffer before calling PatchTable with a patch of patchSize bytes.
//
// The estimate is ceil(patchSize*1.2) plus a fixed slack, and 0 when there
// is no patch. doc is accepted for symmetry with PatchTable; the estimate
// only depends on the raw patch size.
func (p *Patcher) EstimateSize(fileName string, doc Document, patchSize int) int {
	if patchSize <= 0 {
		return 0
	}
	scaled, ok := sizing.MulDivCeil(patchSize, 6, 5)
	if !ok {
		p.log().Warn("TFCS: patch too large to estimate",
			slog.String("file", fileName),
			slog.Int("patch_size", patchSize))
		return 0
	}
	n, ok := sizing.AddInt(scaled, estimateSlack)
	if !ok {
		return 0
	}
	return n
}
