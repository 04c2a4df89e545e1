package typeinfo

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry is the process-wide table mapping Go types to descriptors. Descriptors
// for Go structs are derived on first request and never change afterwards.
type Registry struct {
	parser *TagParser

	types sync.Map // reflect.Type -> *Type, fully built descriptors only

	mu     sync.Mutex // serializes builds
	ifaces []*Type
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTagName sets the struct tag key read for property names.
func WithTagName(name string) RegistryOption {
	return func(r *Registry) { r.parser = NewTagParser(name) }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{parser: NewTagParser(DefaultTagName)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Of returns the descriptor of rt from the process-wide registry.
func Of(rt reflect.Type) (*Type, error) { return defaultRegistry.Of(rt) }

// For returns the descriptor of T from the process-wide registry.
func For[T any]() (*Type, error) { return defaultRegistry.Of(reflect.TypeFor[T]()) }

// RegisterInterface attaches interface I to every struct described afterwards
// whose pointer implements it.
func RegisterInterface[I any]() (*Type, error) {
	return defaultRegistry.RegisterInterface(reflect.TypeFor[I]())
}

// Of returns the descriptor for rt, deriving it if needed. Pointer types describe
// their element type.
func (r *Registry) Of(rt reflect.Type) (*Type, error) {
	if rt == nil {
		return nil, fmt.Errorf("%w: nil type", ErrIntrospection)
	}
	rt = indirect(rt)
	if t, ok := r.types.Load(rt); ok {
		return t.(*Type), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.build(rt)
}

// Lookup returns the descriptor for rt if one was already derived.
func (r *Registry) Lookup(rt reflect.Type) (*Type, bool) {
	if rt == nil {
		return nil, false
	}
	t, ok := r.types.Load(indirect(rt))
	if !ok {
		return nil, false
	}
	return t.(*Type), true
}

// RegisterInterface derives the descriptor of the Go interface rt and attaches it
// to structs described from now on.
func (r *Registry) RegisterInterface(rt reflect.Type) (*Type, error) {
	if rt == nil || rt.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %v is not an interface type", ErrIntrospection, rt)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.build(rt)
	if err != nil {
		return nil, err
	}
	for _, existing := range r.ifaces {
		if existing == t {
			return t, nil
		}
	}
	r.ifaces = append(r.ifaces, t)
	return t, nil
}

// Count returns the number of derived descriptors.
func (r *Registry) Count() int {
	n := 0
	r.types.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// build runs with r.mu held and publishes every descriptor it derived only once
// all of them are complete.
func (r *Registry) build(rt reflect.Type) (*Type, error) {
	if t, ok := r.types.Load(rt); ok {
		return t.(*Type), nil
	}
	b := &goBuilder{r: r, pending: make(map[reflect.Type]*Type)}
	t, err := b.describe(rt)
	if err != nil {
		return nil, err
	}
	for k, v := range b.pending {
		r.types.Store(k, v)
	}
	return t, nil
}

// upcast walks from v (a struct value) through embedded superclass fields until it
// reaches a value of type to.
func (r *Registry) upcast(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	for v.Type() != to {
		t, ok := r.Lookup(v.Type())
		if !ok || t.superIndex < 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s does not extend %s", ErrIllegalArgument, v.Type(), to)
		}
		v = v.Field(t.superIndex)
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: nil embedded %s", ErrIllegalArgument, v.Type())
			}
			v = v.Elem()
		}
	}
	return v, nil
}

func indirect(rt reflect.Type) reflect.Type {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}
