// Package upgrade propagates a package's version to the workspace members
// that depend on it.
//
// A run is split in two phases. Plan reads the source manifest and every
// member manifest and stages the rewritten documents in memory; Apply then
// reports and writes them in workspace order. A member that cannot be read
// or parsed aborts the run before any file is written.
package upgrade
