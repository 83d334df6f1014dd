// Package scaffold generates new plugin files from embedded templates. It
// powers "calc plugins new", writing a Lua script or an exec manifest plus
// its script into the plugin directory.
package scaffold
