// Package repl runs the interactive calculator loop: it reads lines, handles
// the session commands (help, history, plugins, ...) and hands everything
// else to the dispatcher. A failing command prints an error and the loop
// continues; only exit, quit or end of input stop it.
package repl
