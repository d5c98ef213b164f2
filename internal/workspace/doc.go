// Package workspace integrates config and root manifest loading with path
// resolution. It provides the Context type that holds the resolved workspace
// root, its settings, and the ordered list of member packages.
package workspace
