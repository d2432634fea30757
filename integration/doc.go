//go:build integration

// Package integration provides end-to-end tests for the tfcs library.
//
// These tests build a game data tree and patch stacks on disk, load a YAML
// run configuration and patch every file in place through the batch
// processor. Run with: go test -tags=integration ./integration/...
package integration
