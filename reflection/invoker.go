package reflection

import (
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

type invokerKind uint8

const (
	methodInvoker invokerKind = iota
	getFieldInvoker
	setFieldInvoker
	ambiguousInvoker
)

func (k invokerKind) String() string {
	switch k {
	case methodInvoker:
		return "method"
	case getFieldInvoker:
		return "get-field"
	case setFieldInvoker:
		return "set-field"
	default:
		return "ambiguous"
	}
}

// Invoker reads, writes or calls one property's backing member. It is one of a
// closed set of variants: a method call, a field read, a field write, or an
// accessor that always fails because the property is ambiguous.
//
// Invokers are immutable and safe for concurrent use.
type Invoker struct {
	kind   invokerKind
	method *typeinfo.Method
	field  *typeinfo.Field
	typ    *typeinfo.Type
	msg    string
	policy AccessPolicy
}

func newMethodInvoker(m *typeinfo.Method, policy AccessPolicy) *Invoker {
	inv := &Invoker{kind: methodInvoker, method: m, policy: policy}
	if len(m.Params) == 1 {
		inv.typ = m.Params[0]
	} else {
		inv.typ = m.Return
	}
	return inv
}

func newAmbiguousInvoker(m *typeinfo.Method, msg string) *Invoker {
	inv := newMethodInvoker(m, nil)
	inv.kind = ambiguousInvoker
	inv.msg = msg
	return inv
}

func newGetFieldInvoker(f *typeinfo.Field, policy AccessPolicy) *Invoker {
	return &Invoker{kind: getFieldInvoker, field: f, typ: f.Type, policy: policy}
}

func newSetFieldInvoker(f *typeinfo.Field, policy AccessPolicy) *Invoker {
	return &Invoker{kind: setFieldInvoker, field: f, typ: f.Type, policy: policy}
}

// Type returns the declared type of the member: the parameter type of a
// one-argument method, else the return type; the field type for field accessors.
func (i *Invoker) Type() *typeinfo.Type {
	return i.typ
}

// IsAmbiguous reports whether every invocation fails with ErrAmbiguousMember.
func (i *Invoker) IsAmbiguous() bool {
	return i.kind == ambiguousInvoker
}

// Method returns the backing method, or nil for field accessors.
func (i *Invoker) Method() *typeinfo.Method { return i.method }

// Field returns the backing field, or nil for method accessors.
func (i *Invoker) Field() *typeinfo.Field { return i.field }

func (i *Invoker) String() string {
	if i.field != nil {
		return fmt.Sprintf("%s(%s)", i.kind, i.field)
	}
	return fmt.Sprintf("%s(%s)", i.kind, i.method)
}

// Invoke performs the access on target. Field reads ignore args; field writes
// take exactly one argument. When the member is not accessible, the access
// policy is checked once: if it permits, access checks are suppressed on the
// member and the call is retried exactly once, otherwise ErrAccessDenied.
func (i *Invoker) Invoke(target any, args ...any) (any, error) {
	if i.kind == ambiguousInvoker {
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousMember, i.msg)
	}

	v, err := i.call(target, args)
	if err == nil || !errors.Is(err, typeinfo.ErrIllegalAccess) {
		return v, err
	}
	if i.policy == nil || !i.policy() {
		return nil, fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}

	i.suppressAccessChecks()
	v, err = i.call(target, args)
	if err != nil && errors.Is(err, typeinfo.ErrIllegalAccess) {
		return nil, fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}
	return v, err
}

func (i *Invoker) call(target any, args []any) (any, error) {
	switch i.kind {
	case methodInvoker:
		return i.method.Invoke(target, args...)
	case getFieldInvoker:
		return i.field.Get(target)
	case setFieldInvoker:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: field %s takes exactly one value, got %d", typeinfo.ErrIllegalArgument, i.field, len(args))
		}
		return nil, i.field.Set(target, args[0])
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousMember, i.msg)
	}
}

func (i *Invoker) suppressAccessChecks() {
	if i.field != nil {
		i.field.SetAccessible(true)
		return
	}
	i.method.SetAccessible(true)
}
