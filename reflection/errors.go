package reflection

import (
	"errors"

	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

var (
	// ErrIntrospection is returned when the members of a type cannot be
	// enumerated. It is fatal to the extraction and never cached.
	ErrIntrospection = typeinfo.ErrIntrospection

	// ErrAmbiguousMember is returned by every invocation of an accessor whose
	// competing getters or setters could not be resolved.
	ErrAmbiguousMember = errors.New("ambiguous member")

	// ErrNoSuchProperty is returned when a property is not in the queried set.
	ErrNoSuchProperty = errors.New("no such property")

	// ErrNoDefaultConstructor is returned when a type declares no zero-argument
	// constructor.
	ErrNoDefaultConstructor = errors.New("no default constructor")

	// ErrAccessDenied is returned when a member is not accessible and access
	// checks may not be suppressed.
	ErrAccessDenied = errors.New("access denied")
)
