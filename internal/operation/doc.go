// Package operation holds the built-in operation registry and the Command
// type that binds an operation to a concrete argument list. Names are matched
// case-insensitively; the registry is filled once at startup and only read
// afterwards.
package operation
