package typeinfo

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Package-level errors raised by member enumeration and invocation.
var (
	// ErrIntrospection is returned when the members of a type cannot be enumerated.
	ErrIntrospection = errors.New("introspection failure")

	// ErrIllegalAccess is returned when a non-accessible member is used.
	ErrIllegalAccess = errors.New("illegal access")

	// ErrIllegalArgument is returned when a member is invoked with unusable arguments.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrInvocation wraps failures raised by the member implementation itself.
	ErrInvocation = errors.New("invocation failed")
)

// Kind classifies a type descriptor.
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindPrimitive
	KindArray
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	default:
		return "opaque"
	}
}

// Type is an opaque descriptor identifying one concrete type. Two descriptors are
// the same type iff they are the same pointer.
type Type struct {
	id         uuid.UUID
	name       string
	kind       Kind
	super      *Type
	interfaces []*Type
	elem       *Type
	goType     reflect.Type

	// Bindings of the superclass' type parameters, keyed by parameter name.
	superArgs map[string]TypeRef

	// Go adapter only: index of the embedded field holding the superclass.
	superIndex int

	constructors []*Constructor
	methods      []*Method
	fields       []*Field

	restricted string
}

func newType(name string, kind Kind) *Type {
	return &Type{id: uuid.New(), name: name, kind: kind, superIndex: -1}
}

var (
	// Object is the universal root type. It declares no members.
	Object = newType("object", KindClass)

	// Void is the return type of members that return nothing.
	Void = newType("void", KindPrimitive)

	primitives sync.Map // string -> *Type
	arrays     sync.Map // *Type -> *Type

	// Bool is the boolean primitive.
	Bool = Primitive("bool")
)

// Primitive returns the canonical primitive descriptor with the given name.
func Primitive(name string) *Type {
	if name == Void.name {
		return Void
	}
	if t, ok := primitives.Load(name); ok {
		return t.(*Type)
	}
	t, _ := primitives.LoadOrStore(name, newType(name, KindPrimitive))
	return t.(*Type)
}

// ArrayOf returns the canonical array descriptor for elem.
func ArrayOf(elem *Type) *Type {
	if t, ok := arrays.Load(elem); ok {
		return t.(*Type)
	}
	arr := newType("[]"+elem.name, KindArray)
	arr.elem = elem
	arr.super = Object
	t, _ := arrays.LoadOrStore(elem, arr)
	return t.(*Type)
}

// ID is unique per descriptor and stable for its lifetime. Caches key on it.
func (t *Type) ID() uuid.UUID { return t.id }
func (t *Type) Name() string { return t.name }
func (t *Type) String() string { return t.name }
func (t *Type) Kind() Kind { return t.kind }
func (t *Type) Super() *Type { return t.super }
func (t *Type) Elem() *Type { return t.elem }
func (t *Type) GoType() reflect.Type { return t.goType }
func (t *Type) Interfaces() []*Type { return slices.Clone(t.interfaces) }
func (t *Type) IsPrimitive() bool { return t.kind == KindPrimitive }
func (t *Type) IsInterface() bool { return t.kind == KindInterface }

// SuperArg returns the binding of the superclass type parameter name, or nil.
func (t *Type) SuperArg(name string) TypeRef {
	return t.superArgs[name]
}

func (t *Type) isTypeRef() {}

func (t *Type) checkAccess() error {
	if t.restricted != "" {
		return fmt.Errorf("%w: cannot enumerate members of %s: %s", ErrIntrospection, t.name, t.restricted)
	}
	return nil
}

// DeclaredConstructors returns the constructors declared by t itself.
func (t *Type) DeclaredConstructors() ([]*Constructor, error) {
	if err := t.checkAccess(); err != nil {
		return nil, err
	}
	return slices.Clone(t.constructors), nil
}

// DeclaredMethods returns the methods declared by t itself, in declaration order.
func (t *Type) DeclaredMethods() ([]*Method, error) {
	if err := t.checkAccess(); err != nil {
		return nil, err
	}
	return slices.Clone(t.methods), nil
}

// DeclaredFields returns the fields declared by t itself, in declaration order.
func (t *Type) DeclaredFields() ([]*Field, error) {
	if err := t.checkAccess(); err != nil {
		return nil, err
	}
	return slices.Clone(t.fields), nil
}

// Methods returns the public methods of t including inherited ones: the super
// chain for classes, the super-interfaces for interfaces. Duplicates are kept.
func (t *Type) Methods() ([]*Method, error) {
	var out []*Method
	seen := make(map[*Type]bool)
	var walk func(c *Type) error
	walk = func(c *Type) error {
		if c == nil || seen[c] {
			return nil
		}
		seen[c] = true
		if err := c.checkAccess(); err != nil {
			return err
		}
		for _, m := range c.methods {
			if m.Access == Public {
				out = append(out, m)
			}
		}
		for _, iface := range c.interfaces {
			if err := walk(iface); err != nil {
				return err
			}
		}
		return walk(c.super)
	}
	if err := walk(t); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignableFrom reports whether a value of type other can be used where t is
// expected.
func (t *Type) AssignableFrom(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t == other {
		return true
	}
	if t.kind == KindPrimitive || other.kind == KindPrimitive {
		return false
	}
	if t == Object {
		return true
	}

	switch t.kind {
	case KindArray:
		return other.kind == KindArray && !t.elem.IsPrimitive() && t.elem.AssignableFrom(other.elem)
	case KindInterface:
		if t.goType != nil && other.goType != nil && t.goType.Kind() == reflect.Interface {
			if other.goType.Implements(t.goType) || reflect.PointerTo(other.goType).Implements(t.goType) {
				return true
			}
		}
	}

	for c := other; c != nil; c = c.super {
		if c == t {
			return true
		}
		if t.IsInterface() && c.implements(t) {
			return true
		}
	}
	return false
}

func (t *Type) implements(iface *Type) bool {
	for _, i := range t.interfaces {
		if i == iface || i.implements(iface) {
			return true
		}
	}
	return false
}
