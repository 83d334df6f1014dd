package history

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"
)

// ErrIndexOutOfRange is returned by Edit for an index outside [0, Len()).
var ErrIndexOutOfRange = errors.New("history record index out of range")

// Log is the ordered list of calculation records. Timestamps issued by one
// Log strictly increase, even when the clock does not advance between calls.
type Log struct {
	mu      sync.Mutex
	now     func() time.Time
	last    time.Time
	records []Record
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces time.Now as the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog returns an empty log.
func NewLog(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Edit describes the fields to change in a record. Nil fields are kept.
type Edit struct {
	Command   *string
	Arguments []float64
	Result    *float64
}

// Append adds a record stamped with the current time.
func (l *Log) Append(command string, args []float64, result float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, Record{
		Command:   command,
		Arguments: FormatArgs(args),
		Result:    result,
		Timestamp: l.stamp(),
	})
}

// Edit updates the record at index and re-stamps it.
func (l *Log) Edit(index int, e Edit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.records) {
		return fmt.Errorf("%w: %d (have %d records)", ErrIndexOutOfRange, index, len(l.records))
	}
	r := &l.records[index]
	if e.Command != nil {
		r.Command = *e.Command
	}
	if e.Arguments != nil {
		r.Arguments = FormatArgs(e.Arguments)
	}
	if e.Result != nil {
		r.Result = *e.Result
	}
	r.Timestamp = l.stamp()
	return nil
}

// Clear removes every record.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Records returns a copy of the records in insertion order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Replace swaps in records loaded from a store. Later stamps stay ahead of
// the newest loaded timestamp.
func (l *Log) Replace(records []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = make([]Record, len(records))
	copy(l.records, records)
	for _, r := range records {
		if t, err := time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local); err == nil && t.After(l.last) {
			l.last = t
		}
	}
}

// Render writes the records as an aligned table, or a notice when empty.
func (l *Log) Render(w io.Writer) error {
	records := l.Records()
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No history available.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOMMAND\tARGUMENTS\tRESULT\tTIMESTAMP")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, r.Command, r.Arguments, formatFloat(r.Result), r.Timestamp)
	}
	return tw.Flush()
}

// stamp must be called with l.mu held.
func (l *Log) stamp() string {
	t := l.now().Truncate(time.Microsecond)
	if !t.After(l.last) {
		t = l.last.Add(time.Microsecond)
	}
	l.last = t
	return t.Format(TimestampLayout)
}
