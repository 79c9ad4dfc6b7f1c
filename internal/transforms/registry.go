package transforms

import (
	"fmt"
	"sort"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

// Factory builds a transform from positional parameters.
type Factory func(params []float64) (gcl.Transform, error)

// Registry maps transform names to factories. It is never mutated after
// construction and is safe for concurrent lookups.
type Registry struct {
	factories map[string]Factory
}

// Default holds the built-in transforms.
var Default = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.factories["normal"] = func(params []float64) (gcl.Transform, error) {
		if err := wantParams("normal", params, 0, 0); err != nil {
			return nil, err
		}
		return NewNormal(), nil
	}
	r.factories["lognormal"] = func(params []float64) (gcl.Transform, error) {
		if err := wantParams("lognormal", params, 1, 2); err != nil {
			return nil, err
		}
		if len(params) == 2 {
			return NewLogNormalCross(params[0], params[1])
		}
		return NewLogNormal(params[0])
	}
	r.factories["lognormal_normal"] = func(params []float64) (gcl.Transform, error) {
		if err := wantParams("lognormal_normal", params, 1, 1); err != nil {
			return nil, err
		}
		return NewLogNormalNormal(params[0])
	}

	return r
}

// With returns a copy of the registry with an additional factory.
func (r *Registry) With(name string, fn Factory) *Registry {
	next := &Registry{factories: make(map[string]Factory, len(r.factories)+1)}
	for k, v := range r.factories {
		next.factories[k] = v
	}
	next.factories[name] = fn
	return next
}

// Lookup builds the named transform with the given parameters.
func (r *Registry) Lookup(name string, params []float64) (gcl.Transform, error) {
	fn, ok := r.factories[name]
	if !ok {
		return nil, &gcl.UnknownTransformError{Name: name}
	}
	return fn(params)
}

func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wantParams(name string, params []float64, lo, hi int) error {
	if len(params) < lo || len(params) > hi {
		if lo == hi {
			return fmt.Errorf("%w: %s takes %d parameter(s), got %d", gcl.ErrInvalidParameter, name, lo, len(params))
		}
		return fmt.Errorf("%w: %s takes %d to %d parameters, got %d", gcl.ErrInvalidParameter, name, lo, hi, len(params))
	}
	return nil
}
