// Package runtime defines the Runtime interface for loading calculator plugins
// and provides two implementations: Lua scripts run in an embedded gopher-lua
// interpreter and executables described by a *.plugin.yaml manifest. ForFile
// selects the runtime that handles a given plugin file.
package runtime
