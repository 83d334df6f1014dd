// Package plugin discovers calculator plugins in a directory and keeps the
// name → plugin registry that the dispatcher consults after the built-in
// operations. A plugin that fails to load is logged and skipped; it never
// aborts the scan.
package plugin
