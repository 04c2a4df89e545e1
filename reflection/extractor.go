package reflection

import (
	"fmt"

	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

// accessor is one resolved property accessor together with its erased type.
type accessor struct {
	invoker *Invoker
	typ     *typeinfo.Type
}

// propertyTable keeps accessors in discovery order. Replacing an entry keeps
// its original position.
type propertyTable struct {
	names   []string
	entries map[string]accessor
}

func newPropertyTable() *propertyTable {
	return &propertyTable{entries: make(map[string]accessor)}
}

func (p *propertyTable) put(name string, a accessor) {
	if _, ok := p.entries[name]; !ok {
		p.names = append(p.names, name)
	}
	p.entries[name] = a
}

func (p *propertyTable) has(name string) bool {
	_, ok := p.entries[name]
	return ok
}

// conflicts groups candidate methods by property name, in encounter order.
type conflicts struct {
	names  []string
	groups map[string][]*typeinfo.Method
}

func groupByProperty(methods []*typeinfo.Method, accept func(*typeinfo.Method) bool) *conflicts {
	c := &conflicts{groups: make(map[string][]*typeinfo.Method)}
	for _, m := range methods {
		if !accept(m) {
			continue
		}
		name, err := MethodToProperty(m.Name)
		if err != nil || !isValidPropertyName(name) {
			continue
		}
		if _, ok := c.groups[name]; !ok {
			c.names = append(c.names, name)
		}
		c.groups[name] = append(c.groups[name], m)
	}
	return c
}

type extractor struct {
	t    *typeinfo.Type
	opts *options
	get  *propertyTable
	set  *propertyTable
	ctor *typeinfo.Constructor
}

// NewReflector extracts the property metadata of t. Ambiguous properties do
// not fail the extraction; their accessors fail when invoked. The only error is
// a failure to enumerate the members of t or one of its ancestors.
func NewReflector(t *typeinfo.Type, opts ...Option) (*Reflector, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", typeinfo.ErrIllegalArgument)
	}
	e := &extractor{
		t:    t,
		opts: applyOptions(opts),
		get:  newPropertyTable(),
		set:  newPropertyTable(),
	}
	if err := e.run(); err != nil {
		return nil, err
	}
	return newReflector(e), nil
}

func (e *extractor) run() error {
	if err := e.addDefaultConstructor(); err != nil {
		return err
	}
	methods, err := e.collectMethods()
	if err != nil {
		return err
	}
	e.addGetMethods(methods)
	e.addSetMethods(methods)
	return e.addFields()
}

func (e *extractor) addDefaultConstructor() error {
	ctors, err := e.t.DeclaredConstructors()
	if err != nil {
		return err
	}
	for _, c := range ctors {
		if len(c.Params) == 0 {
			e.ctor = c
			return nil
		}
	}
	return nil
}

// collectMethods returns the unique methods of t: its own, then each ancestor's
// up to the root, each level followed by the methods of the interfaces it
// implements. The first method seen for a signature wins; bridges are dropped.
func (e *extractor) collectMethods() ([]*typeinfo.Method, error) {
	seen := make(map[string]struct{})
	var out []*typeinfo.Method
	add := func(methods []*typeinfo.Method) {
		for _, m := range methods {
			if m.Bridge {
				continue
			}
			sig := m.Signature()
			if _, ok := seen[sig]; ok {
				continue
			}
			seen[sig] = struct{}{}
			out = append(out, m)
		}
	}

	for c := e.t; c != nil && c != typeinfo.Object; c = c.Super() {
		declared, err := c.DeclaredMethods()
		if err != nil {
			return nil, err
		}
		add(declared)
		for _, iface := range c.Interfaces() {
			inherited, err := iface.Methods()
			if err != nil {
				return nil, err
			}
			add(inherited)
		}
	}
	return out, nil
}

func (e *extractor) addGetMethods(methods []*typeinfo.Method) {
	c := groupByProperty(methods, isGetterMethod)
	for _, name := range c.names {
		e.resolveGetterConflicts(name, c.groups[name])
	}
}

func (e *extractor) resolveGetterConflicts(name string, candidates []*typeinfo.Method) {
	var winner, rival *typeinfo.Method
	for _, candidate := range candidates {
		if winner == nil {
			winner = candidate
			continue
		}
		winnerType, candidateType := winner.Return, candidate.Return
		switch {
		case candidateType == winnerType:
			if candidateType != typeinfo.Bool {
				rival = candidate
			} else if hasPrefix(candidate.Name, "is") {
				winner = candidate
			}
		case candidateType.AssignableFrom(winnerType):
			// winner already returns the narrower type
		case winnerType.AssignableFrom(candidateType):
			winner = candidate
		default:
			rival = candidate
		}
		if rival != nil {
			break
		}
	}

	var inv *Invoker
	if rival != nil {
		inv = newAmbiguousInvoker(winner, fmt.Sprintf(
			"illegal overloaded getter for property '%s' in '%s': '%s' returned by %s and '%s' returned by %s cannot be reconciled",
			name, e.t, winner.Return, winner, rival.Return, rival))
	} else {
		inv = newMethodInvoker(winner, e.opts.policy)
	}
	e.get.put(name, accessor{
		invoker: inv,
		typ:     e.opts.resolver.Resolve(winner.ReturnRef(), e.t),
	})
}

func (e *extractor) addSetMethods(methods []*typeinfo.Method) {
	c := groupByProperty(methods, isSetterMethod)
	for _, name := range c.names {
		e.resolveSetterConflicts(name, c.groups[name])
	}
}

func (e *extractor) resolveSetterConflicts(name string, setters []*typeinfo.Method) {
	getter, hasGetter := e.get.entries[name]
	getterAmbiguous := hasGetter && getter.invoker.IsAmbiguous()

	var match *typeinfo.Method
	setterAmbiguous := false
	for _, setter := range setters {
		if hasGetter && !getterAmbiguous && setter.Params[0] == getter.typ {
			match = setter
			break
		}
		if !setterAmbiguous {
			match = e.pickBetterSetter(name, match, setter)
			setterAmbiguous = match == nil
		}
	}
	if match != nil {
		e.addSetMethod(name, match)
	}
}

// pickBetterSetter returns the setter taking the narrower parameter type. When
// the parameter types are unrelated it records an ambiguous accessor for the
// property and returns nil.
func (e *extractor) pickBetterSetter(name string, setter1, setter2 *typeinfo.Method) *typeinfo.Method {
	if setter1 == nil {
		return setter2
	}
	param1, param2 := setter1.Params[0], setter2.Params[0]
	if param1.AssignableFrom(param2) {
		return setter2
	}
	if param2.AssignableFrom(param1) {
		return setter1
	}
	inv := newAmbiguousInvoker(setter1, fmt.Sprintf(
		"ambiguous setters defined for property '%s' in '%s' with types '%s' (from %s) and '%s' (from %s)",
		name, setter2.Declaring, param1, setter1.Declaring, param2, setter2.Declaring))
	e.set.put(name, accessor{
		invoker: inv,
		typ:     e.opts.resolver.Resolve(setter1.ParamRefs()[0], e.t),
	})
	return nil
}

func (e *extractor) addSetMethod(name string, m *typeinfo.Method) {
	e.set.put(name, accessor{
		invoker: newMethodInvoker(m, e.opts.policy),
		typ:     e.opts.resolver.Resolve(m.ParamRefs()[0], e.t),
	})
}

// addFields registers field accessors for every field of t and its ancestors
// not already covered by a method accessor of the same name. Fields that are
// both static and final are never written.
func (e *extractor) addFields() error {
	for c := e.t; c != nil; c = c.Super() {
		fields, err := c.DeclaredFields()
		if err != nil {
			return err
		}
		for _, f := range fields {
			if !isValidPropertyName(f.Name) {
				continue
			}
			typ := e.opts.resolver.Resolve(f.TypeRef(), e.t)
			if !e.set.has(f.Name) && !(f.Final && f.Static) {
				e.set.put(f.Name, accessor{invoker: newSetFieldInvoker(f, e.opts.policy), typ: typ})
			}
			if !e.get.has(f.Name) {
				e.get.put(f.Name, accessor{invoker: newGetFieldInvoker(f, e.opts.policy), typ: typ})
			}
		}
	}
	return nil
}
