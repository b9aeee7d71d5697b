// Package binding is a descriptor-driven data-binding layer: it moves
// values between plain maps or result-set rows and objects, addressing
// properties by name through cached descriptors.
package binding

import (
	"fmt"
	"reflect"

	"github.com/descry-dev/descry/cache"
	"github.com/descry-dev/descry/descriptor"
)

// Binder binds named values to object properties.
type Binder struct {
	registry     *cache.Registry
	allowUnknown bool
}

// Option configures a Binder.
type Option func(*Binder)

// WithRegistry sets the descriptor registry to bind through.
func WithRegistry(r *cache.Registry) Option {
	return func(b *Binder) { b.registry = r }
}

// WithUnknownKeys makes Bind skip keys that match no property instead
// of failing.
func WithUnknownKeys(allow bool) Option {
	return func(b *Binder) { b.allowUnknown = allow }
}

// NewBinder creates a Binder backed by the package-level descriptor
// registry unless overridden.
func NewBinder(options ...Option) *Binder {
	b := &Binder{registry: cache.Default()}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Bind writes values into target's properties. Keys are matched
// case-insensitively against the descriptor's property index.
func (b *Binder) Bind(target any, values map[string]any) error {
	d, err := b.registry.DescribeValue(target)
	if err != nil {
		return err
	}
	for key, value := range values {
		prop, ok := d.FindPropertyName(key)
		if !ok || !d.HasSetter(prop) {
			if b.allowUnknown {
				continue
			}
			return fmt.Errorf("binding: key %q: %w on %s", key, descriptor.ErrNoSuchProperty, d.Type())
		}
		setter, err := d.Setter(prop)
		if err != nil {
			return err
		}
		adapted, err := adapt(value, setter.Type())
		if err != nil {
			return fmt.Errorf("binding: key %q: %w", key, err)
		}
		if err := setter.Set(target, adapted); err != nil {
			return fmt.Errorf("binding: set %q: %w", prop, err)
		}
	}
	return nil
}

// Extract reads every readable property of target into a map keyed by
// canonical property name.
func (b *Binder) Extract(target any) (map[string]any, error) {
	d, err := b.registry.DescribeValue(target)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(d.ReadableNames()))
	for _, name := range d.ReadableNames() {
		getter, err := d.Getter(name)
		if err != nil {
			return nil, err
		}
		value, err := getter.Get(target)
		if err != nil {
			return nil, fmt.Errorf("binding: get %q: %w", name, err)
		}
		out[name] = value
	}
	return out, nil
}

// adapt shapes value for a property of type t: assignable values pass
// through, fmt.Stringer bridges into string properties, and otherwise a
// kind-preserving conversion is attempted. String/numeric cross
// conversions are refused; Go would treat int-to-string as a rune
// conversion.
func adapt(value any, t reflect.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return value, nil
	}
	if t.Kind() == reflect.String {
		if s, ok := value.(fmt.Stringer); ok {
			return reflect.ValueOf(s.String()).Convert(t).Interface(), nil
		}
	}
	if convertible(v.Type(), t) {
		return v.Convert(t).Interface(), nil
	}
	return nil, fmt.Errorf("binding: cannot adapt %s to %s", v.Type(), t)
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if (to.Kind() == reflect.String) != (from.Kind() == reflect.String) {
		return false
	}
	return true
}
