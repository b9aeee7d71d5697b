package descriptor

import (
	"fmt"
	"reflect"

	"github.com/descry-dev/descry/introspect"
)

// Accessor is a resolved read or write operation bound to a single
// property. It is backed either by a callable member or by raw storage
// and is owned exclusively by the descriptor that resolved it.
type Accessor interface {
	// Type is the accessor's declared value type: the result type for
	// read accessors, the parameter type for write accessors.
	Type() reflect.Type
	// Get reads the property from target.
	Get(target any) (any, error)
	// Set writes value into the property on target.
	Set(target any, value any) error
}

// methodGetter wraps a zero-argument callable as a read accessor.
type methodGetter struct {
	member introspect.Member
}

func (a methodGetter) Type() reflect.Type { return a.member.Result }

func (a methodGetter) Get(target any) (any, error) {
	return a.member.Invoke(target)
}

func (a methodGetter) Set(any, any) error {
	return fmt.Errorf("%w: %s", ErrNotWritable, a.member.Name)
}

// methodSetter wraps a one-argument callable as a write accessor.
type methodSetter struct {
	member introspect.Member
}

func (a methodSetter) Type() reflect.Type { return a.member.Params[0] }

func (a methodSetter) Get(any) (any, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotReadable, a.member.Name)
}

func (a methodSetter) Set(target any, value any) error {
	_, err := a.member.Invoke(target, value)
	return err
}

// fieldAccessor wraps raw storage. The same shape serves as read
// accessor, write accessor, or both, depending on how it is registered.
type fieldAccessor struct {
	field introspect.FieldMember
}

func (a fieldAccessor) Type() reflect.Type { return a.field.Type }

func (a fieldAccessor) Get(target any) (any, error) {
	return a.field.Get(target)
}

func (a fieldAccessor) Set(target any, value any) error {
	return a.field.Set(target, value)
}
