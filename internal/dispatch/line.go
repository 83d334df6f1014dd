package dispatch

import "strings"

// Invocation is one command parsed from an input line.
type Invocation struct {
	Name string
	Args []string
}

// ParseLine splits a line into commands on ';' and each command into
// whitespace-separated tokens. Empty segments are dropped.
func ParseLine(line string) []Invocation {
	var out []Invocation
	for _, segment := range strings.Split(line, ";") {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		out = append(out, Invocation{Name: fields[0], Args: fields[1:]})
	}
	return out
}
