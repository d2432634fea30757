package tfcs

import (
	"github.com/meigma/tfcs/internal/container"
	"github.com/meigma/tfcs/internal/lines"
	"github.com/meigma/tfcs/internal/patchdoc"
)

// Re-export types from internal packages for the public API.
type (
	// Document maps row indexes to their patches.
	Document = patchdoc.Document

	// RowPatch holds the replacements for one row.
	RowPatch = patchdoc.RowPatch

	// Column is a replacement for one column.
	Column = patchdoc.Column

	// Expander turns a lines bundle into balloon-sized text boxes.
	Expander = lines.Expander

	// BalloonExpander is the default Expander.
	BalloonExpander = lines.BalloonExpander

	// Header is the fixed TFCS container header.
	Header = container.Header
)

// HeaderSize is the packed size of a TFCS header.
const HeaderSize = container.HeaderSize

// ParsePatch decodes a JSON patch document.
var ParsePatch = patchdoc.Parse

// Codec compresses and decompresses TFCS payloads.
type Codec interface {
	// Inflate decompresses src, which must expand to exactly size bytes.
	Inflate(src []byte, size int) ([]byte, error)

	// Deflate compresses src into at most limit bytes. On overflow it
	// returns the truncated stream together with an error.
	Deflate(src []byte, limit int) ([]byte, error)
}

// PlainPatcher patches tables that carry no TFCS header.
type PlainPatcher interface {
	// Patch rewrites the table in buf[:sizeIn] and returns the number of
	// patched rows and the new size.
	Patch(buf []byte, sizeIn int, fileName string, doc Document) (rows, size int, err error)
}

// Resolver returns the raw patch document for a game file and the size of
// the patch files it was built from. A file without a patch yields nil.
type Resolver interface {
	Resolve(fileName string) (doc []byte, size int, err error)
}

// Result reports the outcome of a patch call.
type Result struct {
	// Rows is the number of rows rewritten. Zero means buf was not modified.
	Rows int

	// Size is the number of meaningful bytes in buf after the call.
	Size int

	// Plain is set when the buffer was handled by the plain table patcher.
	Plain bool

	// Truncated is set when the recompressed payload did not fit and a
	// truncated stream was written.
	Truncated bool
}
