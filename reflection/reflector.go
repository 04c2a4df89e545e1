package reflection

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/Konsultn-Engineering/propmeta/typeinfo"
	"github.com/Konsultn-Engineering/propmeta/utils"
)

// Reflector is the immutable property metadata of one type. A Reflector is
// shared by every caller asking for its type and is safe for concurrent use.
type Reflector struct {
	typ     *typeinfo.Type
	buildID ulid.ULID

	readable []string
	writable []string
	get      map[string]accessor
	set      map[string]accessor

	defaultConstructor *typeinfo.Constructor

	// upper-cased name -> canonical name
	caseInsensitive map[string]string
	fingerprint     uint64
}

func newReflector(e *extractor) *Reflector {
	r := &Reflector{
		typ:                e.t,
		buildID:            newBuildID(),
		readable:           slices.Clone(e.get.names),
		writable:           slices.Clone(e.set.names),
		get:                e.get.entries,
		set:                e.set.entries,
		defaultConstructor: e.ctor,
		caseInsensitive:    make(map[string]string, len(e.get.names)+len(e.set.names)),
	}
	for _, name := range r.readable {
		r.caseInsensitive[strings.ToUpper(name)] = name
	}
	for _, name := range r.writable {
		r.caseInsensitive[strings.ToUpper(name)] = name
	}
	r.fingerprint = r.computeFingerprint()
	return r
}

// Type returns the type this Reflector describes.
func (r *Reflector) Type() *typeinfo.Type {
	return r.typ
}

// BuildID identifies the extraction that produced r. Two reflectors share a
// build id only if they are the same instance.
func (r *Reflector) BuildID() ulid.ULID {
	return r.buildID
}

// GetGetInvoker returns the accessor reading name.
func (r *Reflector) GetGetInvoker(name string) (*Invoker, error) {
	a, ok := r.get[name]
	if !ok {
		return nil, r.noGetter(name)
	}
	return a.invoker, nil
}

// GetSetInvoker returns the accessor writing name.
func (r *Reflector) GetSetInvoker(name string) (*Invoker, error) {
	a, ok := r.set[name]
	if !ok {
		return nil, r.noSetter(name)
	}
	return a.invoker, nil
}

// GetGetterType returns the erased type read from name.
func (r *Reflector) GetGetterType(name string) (*typeinfo.Type, error) {
	a, ok := r.get[name]
	if !ok {
		return nil, r.noGetter(name)
	}
	return a.typ, nil
}

// GetSetterType returns the erased type accepted by name.
func (r *Reflector) GetSetterType(name string) (*typeinfo.Type, error) {
	a, ok := r.set[name]
	if !ok {
		return nil, r.noSetter(name)
	}
	return a.typ, nil
}

func (r *Reflector) noGetter(name string) error {
	return fmt.Errorf("%w: there is no getter for property named '%s' in '%s'", ErrNoSuchProperty, name, r.typ)
}

func (r *Reflector) noSetter(name string) error {
	return fmt.Errorf("%w: there is no setter for property named '%s' in '%s'", ErrNoSuchProperty, name, r.typ)
}

// GetGetablePropertyNames returns the readable properties in discovery order.
func (r *Reflector) GetGetablePropertyNames() []string {
	return slices.Clone(r.readable)
}

// GetSetablePropertyNames returns the writable properties in discovery order.
func (r *Reflector) GetSetablePropertyNames() []string {
	return slices.Clone(r.writable)
}

// HasGetter reports whether name is readable. Ambiguous properties count.
func (r *Reflector) HasGetter(name string) bool {
	_, ok := r.get[name]
	return ok
}

// HasSetter reports whether name is writable. Ambiguous properties count.
func (r *Reflector) HasSetter(name string) bool {
	_, ok := r.set[name]
	return ok
}

// FindPropertyName resolves name case-insensitively to a known property.
func (r *Reflector) FindPropertyName(name string) (string, bool) {
	canonical, ok := r.caseInsensitive[strings.ToUpper(name)]
	return canonical, ok
}

// HasDefaultConstructor reports whether the type declares a zero-argument
// constructor.
func (r *Reflector) HasDefaultConstructor() bool {
	return r.defaultConstructor != nil
}

// GetDefaultConstructor returns the zero-argument constructor, or
// ErrNoDefaultConstructor.
func (r *Reflector) GetDefaultConstructor() (*typeinfo.Constructor, error) {
	if r.defaultConstructor == nil {
		return nil, fmt.Errorf("%w: there is no default constructor for %s", ErrNoDefaultConstructor, r.typ)
	}
	return r.defaultConstructor, nil
}

// Fingerprint summarizes the observable shape of r: property names, their
// resolved types, the accessor kinds and whether a default constructor exists.
// Independent extractions of the same type have equal fingerprints.
func (r *Reflector) Fingerprint() uint64 {
	return r.fingerprint
}

func (r *Reflector) computeFingerprint() uint64 {
	parts := []string{r.typ.Name(), fmt.Sprint(r.defaultConstructor != nil)}
	parts = append(parts, describeTable("get", r.get)...)
	parts = append(parts, describeTable("set", r.set)...)
	return utils.Fingerprint(parts...)
}

func describeTable(side string, table map[string]accessor) []string {
	out := make([]string, 0, len(table))
	for name, a := range table {
		out = append(out, fmt.Sprintf("%s:%s:%s:%s", side, name, a.typ, a.invoker.kind))
	}
	slices.Sort(out)
	return out
}
