package reflection

import (
	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

// record is the instance type of hand-built test descriptors: every member
// reads and writes one key.
type record map[string]any

var (
	stringType = typeinfo.Primitive("string")
	intType    = typeinfo.Primitive("int")
	boolType   = typeinfo.Bool
)

func getter(name string, ret *typeinfo.Type, key string) *typeinfo.Method {
	return &typeinfo.Method{
		Name:   name,
		Return: ret,
		Func: func(target any, _ []any) (any, error) {
			return target.(record)[key], nil
		},
	}
}

func setter(name string, param *typeinfo.Type, key string) *typeinfo.Method {
	return &typeinfo.Method{
		Name:   name,
		Params: []*typeinfo.Type{param},
		Func: func(target any, args []any) (any, error) {
			target.(record)[key] = args[0]
			return nil, nil
		},
	}
}

func field(name string, typ *typeinfo.Type) *typeinfo.Field {
	return &typeinfo.Field{
		Name: name,
		Type: typ,
		Getter: func(target any) (any, error) {
			return target.(record)[name], nil
		},
		Setter: func(target any, value any) error {
			target.(record)[name] = value
			return nil
		},
	}
}

func noArgConstructor() *typeinfo.Constructor {
	return &typeinfo.Constructor{
		Func: func([]any) (any, error) { return record{}, nil },
	}
}

// animals is a small class hierarchy: Animal <- Dog <- Puppy, plus Cat.
type animals struct {
	animal, dog, puppy, cat *typeinfo.Type
}

func newAnimals() animals {
	a := typeinfo.NewClass("Animal").Build()
	d := typeinfo.NewClass("Dog").Extends(a).Build()
	return animals{
		animal: a,
		dog:    d,
		puppy:  typeinfo.NewClass("Puppy").Extends(d).Build(),
		cat:    typeinfo.NewClass("Cat").Extends(a).Build(),
	}
}

func mustReflect(t interface {
	Helper()
	Fatalf(string, ...any)
}, typ *typeinfo.Type, opts ...Option) *Reflector {
	t.Helper()
	r, err := NewReflector(typ, opts...)
	if err != nil {
		t.Fatalf("NewReflector(%s): %v", typ, err)
	}
	return r
}
