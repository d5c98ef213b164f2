// Package git wraps the git CLI for the release steps of the version command.
// All operations shell out to the git binary (no libgit2 or go-git dependency).
package git
