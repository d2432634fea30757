// Package tfcs patches translated text into TFCS table containers.
//
// A TFCS container is a small header followed by a zlib-compressed table of
// rows, each row a list of length-prefixed columns. [Patcher] inflates the
// table, rewrites the rows named in a patch [Document], and deflates the
// result back into the caller's buffer:
//
//	p := tfcs.New(tfcs.Config{Game: tfcs.TH155}, tfcs.WithLogger(logger))
//	doc, err := tfcs.ParsePatch(jdiff)
//	if err != nil {
//	    return err
//	}
//	buf := make([]byte, len(file)+p.EstimateSize(name, doc, len(jdiff)))
//	copy(buf, file)
//	res, err := p.PatchTable(buf, len(file), name, doc)
//
// Rows without a patch are copied byte for byte. Message rows carrying a
// "lines" bundle have their balloon or subtitle slots rewritten, and any
// column named in the patch is replaced, with {{ruby|...}} annotations
// converted to the game's \R[...] syntax.
//
// Patching never fails loudly: anything that cannot be done safely leaves
// the buffer as it was and reports an error, so a loader can keep serving
// the original file.
//
// Buffers without a TFCS header are handed to a plain comma-separated table
// patcher instead.
package tfcs
