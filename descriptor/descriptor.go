// Package descriptor builds per-type property accessor descriptors:
// it discovers which named properties of a type are readable and
// writable, resolves conflicts arising from inheritance and covariant
// overriding, and exposes a uniform lookup surface for data-binding
// layers that get and set properties by name.
package descriptor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/descry-dev/descry/introspect"
)

// Descriptor is the immutable result of introspecting one type. Build
// it once with New; afterwards it is safe for unsynchronized concurrent
// reads.
type Descriptor struct {
	typ       reflect.Type
	getters   map[string]Accessor
	setters   map[string]Accessor
	getTypes  map[string]reflect.Type
	setTypes  map[string]reflect.Type
	readable  []string
	writable  []string
	ctor      introspect.Constructor
	hasCtor   bool
	caseIndex map[string]string
}

// Type returns the introspected type.
func (d *Descriptor) Type() reflect.Type { return d.typ }

// HasGetter reports whether the property is readable.
func (d *Descriptor) HasGetter(name string) bool {
	_, ok := d.getters[name]
	return ok
}

// HasSetter reports whether the property is writable.
func (d *Descriptor) HasSetter(name string) bool {
	_, ok := d.setters[name]
	return ok
}

// GetterType returns the declared value type of the property's read
// accessor.
func (d *Descriptor) GetterType(name string) (reflect.Type, error) {
	t, ok := d.getTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: no getter for %q on %s", ErrNoSuchProperty, name, d.typ)
	}
	return t, nil
}

// SetterType returns the declared value type of the property's write
// accessor.
func (d *Descriptor) SetterType(name string) (reflect.Type, error) {
	t, ok := d.setTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: no setter for %q on %s", ErrNoSuchProperty, name, d.typ)
	}
	return t, nil
}

// Getter returns the canonical read accessor for the property.
func (d *Descriptor) Getter(name string) (Accessor, error) {
	a, ok := d.getters[name]
	if !ok {
		return nil, fmt.Errorf("%w: no getter for %q on %s", ErrNoSuchProperty, name, d.typ)
	}
	return a, nil
}

// Setter returns the canonical write accessor for the property.
func (d *Descriptor) Setter(name string) (Accessor, error) {
	a, ok := d.setters[name]
	if !ok {
		return nil, fmt.Errorf("%w: no setter for %q on %s", ErrNoSuchProperty, name, d.typ)
	}
	return a, nil
}

// ReadableNames returns the readable property names. Order is
// unspecified. The slice is the descriptor's own snapshot; callers must
// not modify it.
func (d *Descriptor) ReadableNames() []string { return d.readable }

// WritableNames returns the writable property names. Order is
// unspecified; callers must not modify the slice.
func (d *Descriptor) WritableNames() []string { return d.writable }

// FindPropertyName maps an arbitrarily cased name to the canonical
// property name.
func (d *Descriptor) FindPropertyName(name string) (string, bool) {
	prop, ok := d.caseIndex[strings.ToUpper(name)]
	return prop, ok
}

// HasDefaultConstructor reports whether an accessible zero-argument
// constructor was found.
func (d *Descriptor) HasDefaultConstructor() bool { return d.hasCtor }

// DefaultConstructor returns the zero-argument construction accessor.
func (d *Descriptor) DefaultConstructor() (introspect.Constructor, error) {
	if !d.hasCtor {
		return introspect.Constructor{}, fmt.Errorf("%w: %s", ErrNoDefaultConstructor, d.typ)
	}
	return d.ctor, nil
}

// Instantiate creates a fresh instance through the default constructor.
func (d *Descriptor) Instantiate() (any, error) {
	ctor, err := d.DefaultConstructor()
	if err != nil {
		return nil, err
	}
	return ctor.New()
}
