// Package cli defines the cobra command tree for the calc binary: the
// interactive REPL on the root command plus eval, plugins, history, config,
// doctor and version subcommands.
package cli
