package history

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// frozenClock always returns the same instant so the Log must bump stamps itself.
func frozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 1000, time.UTC)

func TestAppend_StrictlyIncreasingTimestamps(t *testing.T) {
	l := NewLog(WithClock(frozenClock(epoch)))
	l.Append("add", []float64{2, 3}, 5)
	l.Append("add", []float64{2, 3}, 5)
	l.Append("add", []float64{2, 3}, 5)

	records := l.Records()
	require.Len(t, records, 3)
	require.Equal(t, "2026-01-02 03:04:05.000001", records[0].Timestamp)
	require.Equal(t, "2026-01-02 03:04:05.000002", records[1].Timestamp)
	require.Equal(t, "2026-01-02 03:04:05.000003", records[2].Timestamp)
}

func TestAppend_FormatsArguments(t *testing.T) {
	l := NewLog()
	l.Append("mean", []float64{1, 2.5, -3}, 0.16666666666666666)

	r := l.Records()[0]
	require.Equal(t, "mean", r.Command)
	require.Equal(t, "[1, 2.5, -3]", r.Arguments)
	require.Equal(t, 0.16666666666666666, r.Result)
}

func TestEdit(t *testing.T) {
	l := NewLog(WithClock(frozenClock(epoch)))
	l.Append("add", []float64{2, 3}, 5)
	before := l.Records()[0].Timestamp

	cmd := "multiply"
	result := 6.0
	require.NoError(t, l.Edit(0, Edit{Command: &cmd, Arguments: []float64{2, 3}, Result: &result}))

	r := l.Records()[0]
	require.Equal(t, Record{
		Command:   "multiply",
		Arguments: "[2, 3]",
		Result:    6,
		Timestamp: "2026-01-02 03:04:05.000002",
	}, r)
	require.Greater(t, r.Timestamp, before)
}

func TestEdit_PartialKeepsFields(t *testing.T) {
	l := NewLog()
	l.Append("add", []float64{2, 3}, 5)

	result := 50.0
	require.NoError(t, l.Edit(0, Edit{Result: &result}))

	r := l.Records()[0]
	require.Equal(t, "add", r.Command)
	require.Equal(t, "[2, 3]", r.Arguments)
	require.Equal(t, 50.0, r.Result)
}

func TestEdit_OutOfRange(t *testing.T) {
	l := NewLog()
	l.Append("add", []float64{2, 3}, 5)

	for _, idx := range []int{-1, 1, 10} {
		require.ErrorIs(t, l.Edit(idx, Edit{}), ErrIndexOutOfRange, "index %d", idx)
	}
}

func TestClear(t *testing.T) {
	l := NewLog()
	l.Append("add", []float64{2, 3}, 5)
	l.Clear()
	require.Equal(t, 0, l.Len())
	require.Empty(t, l.Records())
}

func TestRecords_ReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append("add", []float64{2, 3}, 5)
	records := l.Records()
	records[0].Command = "tampered"
	require.Equal(t, "add", l.Records()[0].Command)
}

func TestReplace_KeepsStampsAhead(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	l := NewLog(WithClock(frozenClock(now)))
	l.Replace([]Record{{
		Command:   "add",
		Arguments: "[1, 1]",
		Result:    2,
		Timestamp: now.Add(time.Hour).Format(TimestampLayout),
	}})

	l.Append("add", []float64{2, 2}, 4)
	records := l.Records()
	require.Len(t, records, 2)
	require.Greater(t, records[1].Timestamp, records[0].Timestamp)
}

func TestRender(t *testing.T) {
	l := NewLog(WithClock(frozenClock(epoch)))
	l.Append("add", []float64{2, 3}, 5)
	l.Append("sqrt", []float64{16}, 4)
	l.Append("mean", []float64{1, 2, 4}, 7.0/3.0)

	var buf bytes.Buffer
	require.NoError(t, l.Render(&buf))

	g := goldie.New(t)
	g.Assert(t, "render", buf.Bytes())
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLog().Render(&buf))

	g := goldie.New(t)
	g.Assert(t, "render_empty", buf.Bytes())
}

func TestFormatArgs(t *testing.T) {
	require.Equal(t, "[]", FormatArgs(nil))
	require.Equal(t, "[2, 3]", FormatArgs([]float64{2, 3}))
	require.Equal(t, "[0.1, 1e+21]", FormatArgs([]float64{0.1, 1e21}))
}
