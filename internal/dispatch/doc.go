// Package dispatch resolves a command name to a built-in operation or a
// plugin, converts its argument tokens and runs it. Built-in operations are
// consulted first, so a plugin can never shadow one.
package dispatch
