package descriptor

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrAmbiguousAccessor reports self-contradictory accessor
	// declarations: two candidates for one property whose declared
	// types are unrelated (or identically non-boolean). It aborts
	// descriptor construction; no partial descriptor is produced.
	ErrAmbiguousAccessor = errors.New("descriptor: ambiguous accessor")

	// ErrNoSuchProperty is returned by queries for a property name the
	// descriptor does not carry.
	ErrNoSuchProperty = errors.New("descriptor: no such property")

	// ErrNoDefaultConstructor is returned when no accessible
	// zero-argument constructor was found.
	ErrNoDefaultConstructor = errors.New("descriptor: no default constructor")

	// ErrNotReadable guards Get on a write-only accessor handle.
	ErrNotReadable = errors.New("descriptor: accessor is not readable")

	// ErrNotWritable guards Set on a read-only accessor handle.
	ErrNotWritable = errors.New("descriptor: accessor is not writable")
)

func ambiguousGetter(prop string, typ reflect.Type, first, second reflect.Type) error {
	return fmt.Errorf("%w: getters for property %q on %s declare conflicting types %s and %s",
		ErrAmbiguousAccessor, prop, typ, first, second)
}

func ambiguousSetter(prop string, typ reflect.Type, first, second reflect.Type) error {
	return fmt.Errorf("%w: setters for property %q on %s declare unrelated types %s and %s",
		ErrAmbiguousAccessor, prop, typ, first, second)
}
