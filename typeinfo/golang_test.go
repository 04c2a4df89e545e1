package typeinfo

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// Test Data Structures
// =========================================================================

type Greeter interface {
	Greet() string
}

type Entity struct {
	ID      int64
	version int
}

func (e *Entity) GetID() int64 { return e.ID }

type Account struct {
	Entity
	Owner    string `prop:"holder"`
	Balance  float64
	Internal string `prop:"-"`
	Code     string `prop:"name:accountCode;readonly"`
	note     string
}

func (a *Account) GetOwner() string { return a.Owner }
func (a *Account) SetOwner(owner string) { a.Owner = owner }
func (a *Account) IsOverdrawn() bool { return a.Balance < 0 }
func (a *Account) Greet() string { return "hello " + a.Owner }
func (a *Account) Sum(values ...int) int { return len(values) }
func (a *Account) Split() (int, int) { return 0, 0 }
func (a *Account) Validate() (bool, error) { return a.Owner != "", errInvalid }
func (a *Account) Explode() string { panic("kaboom") }

var errInvalid = errors.New("invalid")

type Node struct {
	Value string
	Next  *Node
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	_, err := r.RegisterInterface(reflect.TypeFor[Greeter]())
	require.NoError(t, err)
	return r
}

func methodNamed(t *testing.T, typ *Type, name string) *Method {
	t.Helper()
	methods, err := typ.DeclaredMethods()
	require.NoError(t, err)
	for _, m := range methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func fieldNamed(t *testing.T, typ *Type, name string) *Field {
	t.Helper()
	fields, err := typ.DeclaredFields()
	require.NoError(t, err)
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// =========================================================================
// Adapter Tests
// =========================================================================

func TestRegistryOf(t *testing.T) {
	r := newTestRegistry(t)

	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)
	accPtr, err := r.Of(reflect.TypeFor[*Account]())
	require.NoError(t, err)

	assert.Same(t, acc, accPtr, "pointer types describe their element")
	assert.Equal(t, KindClass, acc.Kind())
	assert.Equal(t, reflect.TypeFor[Account](), acc.GoType())

	cached, ok := r.Lookup(reflect.TypeFor[Account]())
	assert.True(t, ok)
	assert.Same(t, acc, cached)

	_, err = r.Of(nil)
	assert.ErrorIs(t, err, ErrIntrospection)
}

func TestEmbeddedStructIsSuperclass(t *testing.T) {
	r := newTestRegistry(t)

	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)
	entity, ok := r.Lookup(reflect.TypeFor[Entity]())
	require.True(t, ok)

	assert.Same(t, entity, acc.Super())
	assert.Same(t, Object, entity.Super())
	assert.True(t, entity.AssignableFrom(acc))
}

func TestStructFields(t *testing.T) {
	r := newTestRegistry(t)
	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)

	fields, err := acc.DeclaredFields()
	require.NoError(t, err)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"holder", "balance", "accountCode", "note"}, names)

	assert.Same(t, Primitive("float64"), fieldNamed(t, acc, "balance").Type)
	assert.Equal(t, Public, fieldNamed(t, acc, "holder").Access)
	assert.Equal(t, Private, fieldNamed(t, acc, "note").Access)
	assert.True(t, fieldNamed(t, acc, "accountCode").Final)
}

func TestStructMethods(t *testing.T) {
	r := newTestRegistry(t)
	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)

	assert.NotNil(t, methodNamed(t, acc, "GetOwner"))
	assert.NotNil(t, methodNamed(t, acc, "GetID"), "promoted methods belong to the method set")
	assert.Nil(t, methodNamed(t, acc, "Sum"), "variadic methods are skipped")
	assert.Nil(t, methodNamed(t, acc, "Split"), "two non-error results are skipped")

	setOwner := methodNamed(t, acc, "SetOwner")
	require.NotNil(t, setOwner)
	assert.Same(t, Void, setOwner.Return)
	assert.Equal(t, []*Type{Primitive("string")}, setOwner.Params)

	validate := methodNamed(t, acc, "Validate")
	require.NotNil(t, validate)
	assert.Same(t, Bool, validate.Return, "trailing error is folded")
	assert.Same(t, Bool, methodNamed(t, acc, "IsOverdrawn").Return)
}

func TestStructInvocation(t *testing.T) {
	r := newTestRegistry(t)
	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)

	a := &Account{Owner: "ada", Entity: Entity{ID: 9}}

	v, err := methodNamed(t, acc, "GetOwner").Invoke(a)
	require.NoError(t, err)
	assert.Equal(t, "ada", v)

	_, err = methodNamed(t, acc, "SetOwner").Invoke(a, "grace")
	require.NoError(t, err)
	assert.Equal(t, "grace", a.Owner)

	v, err = methodNamed(t, acc, "GetID").Invoke(a)
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)

	_, err = methodNamed(t, acc, "Validate").Invoke(a)
	assert.ErrorIs(t, err, ErrInvocation)
	assert.ErrorIs(t, err, errInvalid)

	_, err = methodNamed(t, acc, "Explode").Invoke(a)
	assert.ErrorIs(t, err, ErrInvocation)

	_, err = methodNamed(t, acc, "SetOwner").Invoke(a, struct{}{})
	assert.ErrorIs(t, err, ErrIllegalArgument)
}

func TestStructInvocationRejectsNilTarget(t *testing.T) {
	r := newTestRegistry(t)
	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)

	for _, name := range []string{"GetOwner", "SetOwner"} {
		m := methodNamed(t, acc, name)
		args := make([]any, len(m.Params))
		for i := range args {
			args[i] = "x"
		}
		assert.NotPanics(t, func() {
			_, err = m.Invoke(nil, args...)
		})
		assert.ErrorIs(t, err, ErrIllegalArgument, name)
	}

	_, err = fieldNamed(t, acc, "holder").Get(nil)
	assert.ErrorIs(t, err, ErrIllegalArgument)
}

func TestProcessWideRegistry(t *testing.T) {
	type Ledger struct {
		Title string
	}

	before := Default().Count()
	ledger, err := For[Ledger]()
	require.NoError(t, err)
	assert.Greater(t, Default().Count(), before)

	again, err := Of(reflect.TypeFor[*Ledger]())
	require.NoError(t, err)
	assert.Same(t, ledger, again)

	found, ok := Default().Lookup(reflect.TypeFor[Ledger]())
	require.True(t, ok)
	assert.Same(t, ledger, found)
}

func TestFieldAccess(t *testing.T) {
	r := newTestRegistry(t)
	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)
	entity, _ := r.Lookup(reflect.TypeFor[Entity]())

	a := &Account{Balance: 1.5}

	balance := fieldNamed(t, acc, "balance")
	v, err := balance.Get(a)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
	require.NoError(t, balance.Set(a, 2))
	assert.Equal(t, 2.0, a.Balance, "convertible values are converted")

	note := fieldNamed(t, acc, "note")
	_, err = note.Get(a)
	assert.ErrorIs(t, err, ErrIllegalAccess)
	note.SetAccessible(true)
	require.NoError(t, note.Set(a, "private"))
	assert.Equal(t, "private", a.note)

	// fields of the superclass are reached through the embedded struct
	version := fieldNamed(t, entity, "version")
	version.SetAccessible(true)
	require.NoError(t, version.Set(a, 3))
	assert.Equal(t, 3, a.version)

	_, err = balance.Get(Account{})
	assert.ErrorIs(t, err, ErrIllegalArgument, "targets must be pointers")
	_, err = balance.Get(&Node{})
	assert.ErrorIs(t, err, ErrIllegalArgument)
}

func TestConstructor(t *testing.T) {
	r := newTestRegistry(t)
	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)

	ctors, err := acc.DeclaredConstructors()
	require.NoError(t, err)
	require.Len(t, ctors, 1)

	v, err := ctors[0].NewInstance()
	require.NoError(t, err)
	assert.IsType(t, &Account{}, v)
}

func TestRegisteredInterfaces(t *testing.T) {
	r := newTestRegistry(t)
	greeter, ok := r.Lookup(reflect.TypeFor[Greeter]())
	require.True(t, ok)
	assert.Equal(t, KindInterface, greeter.Kind())

	acc, err := r.Of(reflect.TypeFor[Account]())
	require.NoError(t, err)
	node, err := r.Of(reflect.TypeFor[Node]())
	require.NoError(t, err)

	assert.Contains(t, acc.Interfaces(), greeter)
	assert.True(t, greeter.AssignableFrom(acc))
	assert.False(t, greeter.AssignableFrom(node))
}

func TestRecursiveTypes(t *testing.T) {
	r := NewRegistry()
	node, err := r.Of(reflect.TypeFor[Node]())
	require.NoError(t, err)

	next := fieldNamed(t, node, "next")
	require.NotNil(t, next)
	assert.Same(t, node, next.Type)
}

func TestGoTypeMapping(t *testing.T) {
	type Status string

	r := NewRegistry()
	tests := []struct {
		name string
		rt   reflect.Type
		want func(*Type) bool
	}{
		{"bool", reflect.TypeFor[bool](), func(t *Type) bool { return t == Bool }},
		{"int", reflect.TypeFor[int](), func(t *Type) bool { return t == Primitive("int") }},
		{"slice", reflect.TypeFor[[]string](), func(t *Type) bool { return t == ArrayOf(Primitive("string")) }},
		{"any", reflect.TypeFor[any](), func(t *Type) bool { return t == Object }},
		{"named string", reflect.TypeFor[Status](), func(t *Type) bool { return t.Kind() == KindOpaque }},
		{"map", reflect.TypeFor[map[string]int](), func(t *Type) bool { return t.Kind() == KindOpaque }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := r.Of(tt.rt)
			require.NoError(t, err)
			assert.True(t, tt.want(typ), "got %s (%s)", typ, typ.Kind())
		})
	}
}
