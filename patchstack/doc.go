// Package patchstack resolves the effective patch document for a game file
// from an ordered stack of patch layers.
//
// Each layer is a file tree holding "<file name>.jdiff" JSON documents.
// Layers later in the stack take priority: their objects are merged
// recursively into earlier ones, and any other value replaces what the
// earlier layers had.
package patchstack
