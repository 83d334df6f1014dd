package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agentx-labs/calcx/internal/operation"
	"github.com/agentx-labs/calcx/internal/plugin"
)

var (
	// ErrArgumentParse is returned when a built-in receives a non-numeric token.
	ErrArgumentParse = errors.New("invalid argument")
	// ErrUnknownCommand is returned when a name matches neither registry.
	ErrUnknownCommand = errors.New("unknown command")
)

// Kind tells which registry a name resolved against.
type Kind int

const (
	Unknown Kind = iota
	BuiltIn
	Plugin
)

func (k Kind) String() string {
	switch k {
	case BuiltIn:
		return "builtin"
	case Plugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// PluginSource is the read side of the plugin registry.
type PluginSource interface {
	Lookup(name string) (plugin.Entry, bool)
	Invoke(ctx context.Context, name string, args ...any) (any, error)
}

// Recorder receives every successful built-in computation.
type Recorder interface {
	Append(command string, args []float64, result float64)
}

// Resolution is the outcome of resolving a command name.
type Resolution struct {
	Kind       Kind
	Name       string
	Descriptor operation.Descriptor // set when Kind == BuiltIn
	Plugin     plugin.Entry         // set when Kind == Plugin
}

// Result is a completed dispatch.
type Result struct {
	Kind  Kind
	Name  string
	Value any // float64 for built-ins
}

// Dispatcher routes commands to the operation registry and the plugin registry.
type Dispatcher struct {
	ops     *operation.Registry
	plugins PluginSource
	rec     Recorder
}

// New returns a dispatcher. plugins and rec may be nil.
func New(ops *operation.Registry, plugins PluginSource, rec Recorder) *Dispatcher {
	return &Dispatcher{ops: ops, plugins: plugins, rec: rec}
}

// Resolve looks name up in the operation registry, then in the plugin registry.
func (d *Dispatcher) Resolve(name string) Resolution {
	key := strings.ToLower(strings.TrimSpace(name))
	if desc, ok := d.ops.Lookup(key); ok {
		return Resolution{Kind: BuiltIn, Name: key, Descriptor: desc}
	}
	if d.plugins != nil {
		if e, ok := d.plugins.Lookup(key); ok {
			return Resolution{Kind: Plugin, Name: key, Plugin: e}
		}
	}
	return Resolution{Kind: Unknown, Name: name}
}

// Dispatch resolves name and runs it with tokens as arguments. Built-ins
// require numeric tokens and are recorded on success; plugins receive
// numbers where tokens parse as numbers and strings otherwise, and are not
// recorded.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, tokens []string) (Result, error) {
	res := d.Resolve(name)
	switch res.Kind {
	case BuiltIn:
		args, err := ParseNumbers(tokens)
		if err != nil {
			return Result{}, err
		}
		cmd, ok := d.ops.NewCommand(res.Name, args)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		}
		v, err := cmd.Execute()
		if err != nil {
			return Result{}, err
		}
		if d.rec != nil {
			d.rec.Append(cmd.Name(), cmd.Args(), v)
		}
		return Result{Kind: BuiltIn, Name: res.Name, Value: v}, nil

	case Plugin:
		v, err := d.plugins.Invoke(ctx, res.Name, PluginArgs(tokens)...)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: Plugin, Name: res.Name, Value: v}, nil

	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

// ParseNumbers converts every token to float64.
func ParseNumbers(tokens []string) ([]float64, error) {
	args := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrArgumentParse, tok)
		}
		args = append(args, v)
	}
	return args, nil
}

// PluginArgs converts finite numeric tokens to float64 and passes the rest,
// including inf and nan, through as strings.
func PluginArgs(tokens []string) []any {
	args := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		if v, err := strconv.ParseFloat(tok, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			args = append(args, v)
		} else {
			args = append(args, tok)
		}
	}
	return args
}

// FormatValue renders a result for display. Floats use the shortest
// representation that round-trips.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
