// Package history keeps the calculation log shown by the history command and
// persists it between sessions. Log is the in-memory record list; Store
// implementations save and load it as CSV, SQLite or bbolt.
package history
