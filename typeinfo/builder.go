package typeinfo

// Builder assembles a type descriptor by hand. It is the registration path for
// types that are not Go structs, and for code generators emitting descriptors.
//
//	base := typeinfo.NewClass("Animal").
//		AddMethod(&typeinfo.Method{Name: "GetName", Return: typeinfo.Primitive("string"), Func: getName}).
//		Build()
//	dog := typeinfo.NewClass("Dog").Extends(base).Build()
type Builder struct {
	t *Type
}

// NewClass starts a class descriptor extending Object.
func NewClass(name string) *Builder {
	t := newType(name, KindClass)
	t.super = Object
	return &Builder{t: t}
}

// NewInterface starts an interface descriptor.
func NewInterface(name string) *Builder {
	return &Builder{t: newType(name, KindInterface)}
}

// Extends sets the superclass. A nil super means Object.
func (b *Builder) Extends(super *Type) *Builder {
	if super == nil {
		super = Object
	}
	b.t.super = super
	return b
}

// Bind binds the superclass type parameter name to ref.
func (b *Builder) Bind(name string, ref TypeRef) *Builder {
	if b.t.superArgs == nil {
		b.t.superArgs = make(map[string]TypeRef)
	}
	b.t.superArgs[name] = ref
	return b
}

// Implements adds implemented interfaces (super-interfaces for interface builders).
func (b *Builder) Implements(ifaces ...*Type) *Builder {
	b.t.interfaces = append(b.t.interfaces, ifaces...)
	return b
}

// AddMethod declares m on the type under construction.
func (b *Builder) AddMethod(m *Method) *Builder {
	m.Declaring = b.t
	if m.Return == nil {
		m.Return = Void
	}
	for i, p := range m.Params {
		if p == nil {
			m.Params[i] = Object
		}
	}
	b.t.methods = append(b.t.methods, m)
	return b
}

// AddField declares f on the type under construction.
func (b *Builder) AddField(f *Field) *Builder {
	f.Declaring = b.t
	if f.Type == nil {
		f.Type = Object
	}
	b.t.fields = append(b.t.fields, f)
	return b
}

// AddConstructor declares c on the type under construction.
func (b *Builder) AddConstructor(c *Constructor) *Builder {
	c.Declaring = b.t
	b.t.constructors = append(b.t.constructors, c)
	return b
}

// Restrict makes every member enumeration on the type fail with ErrIntrospection.
func (b *Builder) Restrict(reason string) *Builder {
	if reason == "" {
		reason = "restricted"
	}
	b.t.restricted = reason
	return b
}

// TypeVar declares a type parameter on the type under construction.
func (b *Builder) TypeVar(name string, bound TypeRef) *TypeVar {
	return &TypeVar{Name: name, Declarer: b.t, Bound: bound}
}

// Type returns the descriptor under construction, for self-referencing members.
func (b *Builder) Type() *Type {
	return b.t
}

// Build returns the finished descriptor. The builder must not be used afterwards.
func (b *Builder) Build() *Type {
	t := b.t
	b.t = nil
	return t
}
