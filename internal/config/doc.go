// Package config handles parsing and writing of .shelf.yaml files.
// The file is optional; it tunes which manifest file name is read, which
// dependency sections are rewritten, and how release tags are named.
package config
