package typeinfo

import "strings"

// TypeRef is a declared type as written on a member: a concrete *Type, a type
// variable, a parameterized type or a generic array.
type TypeRef interface {
	String() string
	isTypeRef()
}

// TypeVar is a type parameter declared by Declarer.
type TypeVar struct {
	Name     string
	Declarer *Type
	// Bound is used when the variable cannot be resolved. Nil means Object.
	Bound TypeRef
}

func (v *TypeVar) String() string { return v.Name }
func (v *TypeVar) isTypeRef()     {}

// Parameterized is a generic type applied to arguments, e.g. List<T>.
type Parameterized struct {
	Raw  *Type
	Args []TypeRef
}

func (p *Parameterized) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return p.Raw.Name() + "[" + strings.Join(args, ",") + "]"
}

func (p *Parameterized) isTypeRef() {}

// GenericArray is an array whose element type is generic.
type GenericArray struct {
	Elem TypeRef
}

func (a *GenericArray) String() string { return "[]" + a.Elem.String() }
func (a *GenericArray) isTypeRef()     {}

// TypeResolver erases a declared type to the runtime type it denotes when seen
// from owner.
type TypeResolver interface {
	Resolve(declared TypeRef, owner *Type) *Type
}

// TypeResolverFunc adapts a function to TypeResolver.
type TypeResolverFunc func(declared TypeRef, owner *Type) *Type

// Resolve calls f.
func (f TypeResolverFunc) Resolve(declared TypeRef, owner *Type) *Type {
	return f(declared, owner)
}

// Erasure is the default TypeResolver. Type variables are looked up through the
// superclass bindings between owner and the variable's declarer; anything that
// cannot be resolved erases to its bound, or Object.
type Erasure struct{}

// Resolve returns the concrete type declared erases to when seen from owner.
func (e Erasure) Resolve(declared TypeRef, owner *Type) *Type {
	switch ref := declared.(type) {
	case nil:
		return Object
	case *Type:
		return ref
	case *Parameterized:
		if ref.Raw == nil {
			return Object
		}
		return ref.Raw
	case *GenericArray:
		return ArrayOf(e.Resolve(ref.Elem, owner))
	case *TypeVar:
		return e.resolveVar(ref, owner)
	default:
		return Object
	}
}

func (e Erasure) resolveVar(v *TypeVar, owner *Type) *Type {
	// child is the type directly extending the declarer on owner's chain.
	var child *Type
	for c := owner; c != nil && c != v.Declarer; c = c.super {
		child = c
	}
	if child == nil || child.super != v.Declarer {
		return e.bound(v, owner)
	}
	binding := child.SuperArg(v.Name)
	if binding == nil {
		return e.bound(v, owner)
	}
	if next, isVar := binding.(*TypeVar); isVar && next == v {
		return e.bound(v, owner)
	}
	return e.Resolve(binding, owner)
}

func (e Erasure) bound(v *TypeVar, owner *Type) *Type {
	if v.Bound == nil {
		return Object
	}
	return e.Resolve(v.Bound, owner)
}
