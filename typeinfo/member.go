package typeinfo

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Access is the declared visibility of a member.
type Access uint8

const (
	Public Access = iota
	Protected
	Package
	Private
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Package:
		return "package-private"
	default:
		return "private"
	}
}

// accessFlag records whether access checks were suppressed on a member handle.
// Suppression is shared by every holder of the handle.
type accessFlag struct {
	overridden atomic.Bool
}

// SetAccessible suppresses (true) or restores (false) access checks on the member.
func (a *accessFlag) SetAccessible(flag bool) { a.overridden.Store(flag) }

// Method describes a callable member taking zero or more arguments.
type Method struct {
	Name      string
	Declaring *Type
	Params    []*Type
	// Return is Void for members returning nothing.
	Return *Type

	// GenericReturn and GenericParams are the declared (possibly generic) types.
	// When nil, Return and Params are used.
	GenericReturn TypeRef
	GenericParams []TypeRef

	// Bridge marks compiler-generated compatibility members.
	Bridge bool
	Access Access

	Func func(target any, args []any) (any, error)

	accessFlag
}

// IsAccessible reports whether the method can be invoked without suppressing
// access checks.
func (m *Method) IsAccessible() bool {
	return m.Access == Public || m.overridden.Load()
}

// ReturnRef returns the declared return type.
func (m *Method) ReturnRef() TypeRef {
	if m.GenericReturn != nil {
		return m.GenericReturn
	}
	return m.returnType()
}

// ParamRefs returns the declared parameter types.
func (m *Method) ParamRefs() []TypeRef {
	refs := make([]TypeRef, len(m.Params))
	for i, p := range m.Params {
		if i < len(m.GenericParams) && m.GenericParams[i] != nil {
			refs[i] = m.GenericParams[i]
		} else {
			refs[i] = p
		}
	}
	return refs
}

func (m *Method) returnType() *Type {
	if m.Return == nil {
		return Void
	}
	return m.Return
}

// Signature returns returnType#name:param1,param2. Two methods with the same
// signature are the same member as far as overriding is concerned.
func (m *Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.returnType().Name())
	sb.WriteByte('#')
	sb.WriteString(m.Name)
	for i, p := range m.Params {
		if i == 0 {
			sb.WriteByte(':')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Name())
	}
	return sb.String()
}

func (m *Method) String() string {
	return fmt.Sprintf("%s.%s", m.Declaring, m.Name)
}

// Invoke calls the method on target.
func (m *Method) Invoke(target any, args ...any) (any, error) {
	if !m.IsAccessible() {
		return nil, fmt.Errorf("%w: %s method %s", ErrIllegalAccess, m.Access, m)
	}
	if len(args) != len(m.Params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrIllegalArgument, m, len(m.Params), len(args))
	}
	if m.Func == nil {
		return nil, fmt.Errorf("%w: %s has no implementation", ErrInvocation, m)
	}
	return m.Func(target, args)
}

// Field describes a data member.
type Field struct {
	Name        string
	Declaring   *Type
	Type        *Type
	GenericType TypeRef

	// Static marks members that belong to the type rather than its instances.
	Static bool
	Final  bool
	Access Access

	Getter func(target any) (any, error)
	Setter func(target any, value any) error

	accessFlag
}

// IsAccessible reports whether the field can be read without suppressing access
// checks.
func (f *Field) IsAccessible() bool {
	return f.Access == Public || f.overridden.Load()
}

// TypeRef returns the declared type of the field.
func (f *Field) TypeRef() TypeRef {
	if f.GenericType != nil {
		return f.GenericType
	}
	return f.Type
}

func (f *Field) String() string {
	return fmt.Sprintf("%s.%s", f.Declaring, f.Name)
}

// Get reads the field from target.
func (f *Field) Get(target any) (any, error) {
	if !f.IsAccessible() {
		return nil, fmt.Errorf("%w: %s field %s", ErrIllegalAccess, f.Access, f)
	}
	if f.Getter == nil {
		return nil, fmt.Errorf("%w: field %s is not readable", ErrInvocation, f)
	}
	return f.Getter(target)
}

// Set assigns value to the field on target. Final fields require suppressed
// access checks even when public.
func (f *Field) Set(target any, value any) error {
	if !f.overridden.Load() && (f.Access != Public || f.Final) {
		return fmt.Errorf("%w: %s field %s", ErrIllegalAccess, f.Access, f)
	}
	if f.Setter == nil {
		return fmt.Errorf("%w: field %s is not writable", ErrInvocation, f)
	}
	return f.Setter(target, value)
}

// Constructor describes a member creating new instances of its declaring type.
type Constructor struct {
	Declaring *Type
	Params    []*Type
	Access    Access

	Func func(args []any) (any, error)

	accessFlag
}

// IsAccessible reports whether the constructor can be called without
// suppressing access checks.
func (c *Constructor) IsAccessible() bool {
	return c.Access == Public || c.overridden.Load()
}

func (c *Constructor) String() string {
	names := make([]string, len(c.Params))
	for i, p := range c.Params {
		names[i] = p.Name()
	}
	return fmt.Sprintf("%s(%s)", c.Declaring, strings.Join(names, ", "))
}

// NewInstance invokes the constructor.
func (c *Constructor) NewInstance(args ...any) (any, error) {
	if !c.IsAccessible() {
		return nil, fmt.Errorf("%w: %s constructor %s", ErrIllegalAccess, c.Access, c)
	}
	if len(args) != len(c.Params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrIllegalArgument, c, len(c.Params), len(args))
	}
	if c.Func == nil {
		return nil, fmt.Errorf("%w: %s has no implementation", ErrInvocation, c)
	}
	return c.Func(args)
}
