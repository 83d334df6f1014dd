package history

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimestampLayout is the microsecond layout used for every record.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Record is one successful built-in computation.
type Record struct {
	Command   string  `json:"command"`
	Arguments string  `json:"arguments"` // e.g. "[2, 3]"
	Result    float64 `json:"result"`
	Timestamp string  `json:"timestamp"`
}

// MarshalJSON writes finite results as JSON numbers and ±Inf or NaN as
// strings ("+Inf", "-Inf", "NaN"), which JSON numbers cannot hold.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	var result any = r.Result
	if !isFinite(r.Result) {
		result = formatFloat(r.Result)
	}
	return json.Marshal(struct {
		plain
		Result any `json:"result"`
	}{plain(r), result})
}

// UnmarshalJSON accepts the result as a number or as a string.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		Result json.RawMessage `json:"result"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	result, err := decodeResult(aux.Result)
	if err != nil {
		return err
	}
	r.Result = result
	return nil
}

func decodeResult(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return parseResult(s)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("invalid result %s: %w", raw, err)
	}
	return v, nil
}

// FormatArgs renders arguments as a bracketed, comma separated list.
func FormatArgs(args []float64) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatFloat(a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseResult(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid result %q: %w", s, err)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
