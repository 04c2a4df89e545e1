package typeinfo

import (
	"fmt"
	"reflect"
	"unsafe"
)

var errorType = reflect.TypeFor[error]()

// goBuilder derives descriptors from Go types. Descriptors are kept in pending
// until the outermost build completes, so recursive types resolve to the
// placeholder being filled.
type goBuilder struct {
	r       *Registry
	pending map[reflect.Type]*Type
}

func (b *goBuilder) describe(rt reflect.Type) (*Type, error) {
	rt = indirect(rt)
	if t, ok := b.r.types.Load(rt); ok {
		return t.(*Type), nil
	}
	if t, ok := b.pending[rt]; ok {
		return t, nil
	}

	switch rt.Kind() {
	case reflect.Bool:
		if rt.Name() == "bool" && rt.PkgPath() == "" {
			return Bool, nil
		}
		return b.opaque(rt), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128, reflect.String:
		if rt.PkgPath() == "" {
			return Primitive(rt.Kind().String()), nil
		}
		return b.opaque(rt), nil
	case reflect.Slice, reflect.Array:
		if rt.Name() != "" {
			return b.opaque(rt), nil
		}
		elem, err := b.describe(rt.Elem())
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	case reflect.Interface:
		if rt.NumMethod() == 0 && rt.Name() == "" {
			return Object, nil
		}
		return b.describeInterface(rt)
	case reflect.Struct:
		return b.describeStruct(rt)
	default:
		return b.opaque(rt), nil
	}
}

func (b *goBuilder) opaque(rt reflect.Type) *Type {
	t := newType(qualifiedName(rt), KindOpaque)
	t.super = Object
	t.goType = rt
	b.pending[rt] = t
	return t
}

func (b *goBuilder) describeInterface(rt reflect.Type) (*Type, error) {
	t := newType(qualifiedName(rt), KindInterface)
	t.goType = rt
	b.pending[rt] = t

	for i := 0; i < rt.NumMethod(); i++ {
		m, ok, err := b.describeMethod(t, rt.Method(i), 0)
		if err != nil {
			return nil, err
		}
		if ok {
			t.methods = append(t.methods, m)
		}
	}
	return t, nil
}

func (b *goBuilder) describeStruct(rt reflect.Type) (*Type, error) {
	t := newType(qualifiedName(rt), KindClass)
	t.goType = rt
	t.super = Object
	b.pending[rt] = t

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)

		// The first embedded struct plays the superclass.
		if sf.Anonymous && t.superIndex < 0 && indirect(sf.Type).Kind() == reflect.Struct {
			super, err := b.describe(sf.Type)
			if err != nil {
				return nil, err
			}
			t.super = super
			t.superIndex = i
			continue
		}

		tag, err := b.r.parser.ParseTag(sf.Name, sf.Tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrIntrospection, rt, err)
		}
		if tag.Skip {
			continue
		}

		ft, err := b.describe(sf.Type)
		if err != nil {
			return nil, err
		}
		f := &Field{
			Name:      tag.Name,
			Declaring: t,
			Type:      ft,
			Final:     tag.ReadOnly,
			Access:    Public,
		}
		if !sf.IsExported() {
			f.Access = Private
		}
		f.Getter, f.Setter = b.fieldAccessors(rt, sf)
		t.fields = append(t.fields, f)
	}

	ptr := reflect.PointerTo(rt)
	for i := 0; i < ptr.NumMethod(); i++ {
		m, ok, err := b.describeMethod(t, ptr.Method(i), 1)
		if err != nil {
			return nil, err
		}
		if ok {
			t.methods = append(t.methods, m)
		}
	}

	for _, iface := range b.r.ifaces {
		if ptr.Implements(iface.goType) {
			t.interfaces = append(t.interfaces, iface)
		}
	}

	t.constructors = []*Constructor{{
		Declaring: t,
		Access:    Public,
		Func: func([]any) (any, error) {
			return reflect.New(rt).Interface(), nil
		},
	}}
	return t, nil
}

// describeMethod converts a method of a struct pointer (skip=1, the receiver) or
// of an interface (skip=0). Variadic methods and methods whose results cannot be
// expressed as a single value plus an optional error are not described.
func (b *goBuilder) describeMethod(owner *Type, rm reflect.Method, skip int) (*Method, bool, error) {
	mt := rm.Type
	if mt.IsVariadic() {
		return nil, false, nil
	}

	foldErr := false
	var ret reflect.Type
	switch mt.NumOut() {
	case 0:
	case 1:
		ret = mt.Out(0)
	case 2:
		if mt.Out(1) != errorType {
			return nil, false, nil
		}
		ret = mt.Out(0)
		foldErr = true
	default:
		return nil, false, nil
	}

	m := &Method{Name: rm.Name, Declaring: owner, Access: Public, Return: Void}
	if ret != nil {
		rtDesc, err := b.describe(ret)
		if err != nil {
			return nil, false, err
		}
		m.Return = rtDesc
	}

	in := make([]reflect.Type, 0, mt.NumIn()-skip)
	for j := skip; j < mt.NumIn(); j++ {
		p, err := b.describe(mt.In(j))
		if err != nil {
			return nil, false, err
		}
		m.Params = append(m.Params, p)
		in = append(in, mt.In(j))
	}

	name := rm.Name
	m.Func = func(target any, args []any) (result any, err error) {
		tv := reflect.ValueOf(target)
		if !tv.IsValid() {
			return nil, fmt.Errorf("%w: nil target for method %s", ErrIllegalArgument, name)
		}
		mv := tv.MethodByName(name)
		if !mv.IsValid() {
			return nil, fmt.Errorf("%w: %T has no method %s", ErrIllegalArgument, target, name)
		}
		callArgs := make([]reflect.Value, len(args))
		for i, a := range args {
			v, err := convertValue(a, in[i])
			if err != nil {
				return nil, fmt.Errorf("%s argument %d: %w", name, i, err)
			}
			callArgs[i] = v
		}

		defer func() {
			if p := recover(); p != nil {
				result, err = nil, fmt.Errorf("%w: %s: %v", ErrInvocation, name, p)
			}
		}()
		out := mv.Call(callArgs)

		if foldErr && !out[1].IsNil() {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvocation, name, out[1].Interface().(error))
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out[0].Interface(), nil
	}
	return m, true, nil
}

// fieldAccessors builds reflection closures for sf. Unexported fields are reached
// through their address, which requires a pointer target.
func (b *goBuilder) fieldAccessors(owner reflect.Type, sf reflect.StructField) (func(any) (any, error), func(any, any) error) {
	index := sf.Index[0]
	fieldType := sf.Type

	locate := func(target any) (reflect.Value, error) {
		v := reflect.ValueOf(target)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: target must be a non-nil pointer to %s, got %T", ErrIllegalArgument, owner, target)
		}
		v, err := b.r.upcast(v.Elem(), owner)
		if err != nil {
			return reflect.Value{}, err
		}
		fv := v.Field(index)
		// Unexported fields, and exported ones promoted through an unexported
		// embedded struct, are read-only to reflect.
		if !fv.CanSet() {
			fv = reflect.NewAt(fieldType, unsafe.Pointer(fv.UnsafeAddr())).Elem()
		}
		return fv, nil
	}

	get := func(target any) (any, error) {
		fv, err := locate(target)
		if err != nil {
			return nil, err
		}
		return fv.Interface(), nil
	}
	set := func(target any, value any) error {
		fv, err := locate(target)
		if err != nil {
			return err
		}
		v, err := convertValue(value, fieldType)
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
		fv.Set(v)
		return nil
	}
	return get, set
}

// convertValue prepares value for assignment to a location of type to: nil
// becomes the zero value, assignable values pass through, convertible values are
// converted.
func convertValue(value any, to reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(to), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(to) {
		return v, nil
	}
	if v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Type().AssignableTo(to) {
		return v.Elem(), nil
	}
	if v.Type().ConvertibleTo(to) {
		return v.Convert(to), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrIllegalArgument, v.Type(), to)
}

func qualifiedName(rt reflect.Type) string {
	if rt.Name() != "" && rt.PkgPath() != "" {
		return rt.PkgPath() + "." + rt.Name()
	}
	return rt.String()
}
