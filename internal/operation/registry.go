package operation

import (
	"sort"
	"strings"
)

// Unbounded marks an operation without an upper arity limit.
const Unbounded = -1

// ComputeFunc evaluates an operation over already validated arguments.
type ComputeFunc func(args []float64) (float64, error)

// Descriptor describes a registered operation.
type Descriptor struct {
	Name     string
	MinArity int
	MaxArity int
	Compute  ComputeFunc
}

// Accepts reports whether n arguments fall inside the descriptor's arity range.
func (d Descriptor) Accepts(n int) bool {
	if n < d.MinArity {
		return false
	}
	return d.MaxArity == Unbounded || n <= d.MaxArity
}

// Registry maps lowercase operation names to descriptors.
type Registry struct {
	ops map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Descriptor)}
}

// Register adds or overwrites the operation stored under the lowercase name.
func (r *Registry) Register(name string, minArity, maxArity int, compute ComputeFunc) {
	key := normalize(name)
	r.ops[key] = Descriptor{
		Name:     key,
		MinArity: minArity,
		MaxArity: maxArity,
		Compute:  compute,
	}
}

// Lookup returns the descriptor registered under name, ignoring case.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.ops[normalize(name)]
	return d, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
