package introspect

import (
	"fmt"
	"reflect"
	"unsafe"
)

// ReflectProvider discovers members through the reflect package.
//
// The mapping onto Go: embedded struct fields form the supertype chain,
// embedded interface fields are the declared interfaces, and unexported
// fields are opened best-effort through their offset. Go compiles no
// covariant-override thunks, so Synthetic is never set, and types carry
// no shared immutable storage, so Constant is never set. Zero-argument
// construction always succeeds via reflect.New.
type ReflectProvider struct{}

// NewReflectProvider returns the reflection-backed provider.
func NewReflectProvider() ReflectProvider { return ReflectProvider{} }

// Methods returns the method set of t. For concrete types the pointer
// method set is used so value- and pointer-receiver declarations are
// both visible; invocation dispatches dynamically by name, which keeps
// interface-declared members bound to the runtime target.
func (ReflectProvider) Methods(t reflect.Type) []Member {
	t = indirect(t)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Interface {
		out := make([]Member, 0, t.NumMethod())
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			out = append(out, methodMember(m.Name, m.Type, 0))
		}
		return out
	}
	pt := reflect.PointerTo(t)
	out := make([]Member, 0, pt.NumMethod())
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		out = append(out, methodMember(m.Name, m.Type, 1))
	}
	return out
}

// Fields returns the named fields declared directly on t. Embedded
// fields are excluded here: they are surfaced through Super and
// Interfaces instead. Unexported fields carry a Relax hook that opens
// them through offset-based access.
func (ReflectProvider) Fields(t reflect.Type) []FieldMember {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	out := make([]FieldMember, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			continue
		}
		fm := FieldMember{
			Name:       f.Name,
			Type:       f.Type,
			Accessible: f.IsExported(),
		}
		if f.IsExported() {
			index := f.Index
			fm.Get = exportedFieldGetter(index)
			fm.Set = exportedFieldSetter(index)
		} else {
			offset, ftype := f.Offset, f.Type
			fm.Relax = func() bool { return true }
			fm.Get = openedFieldGetter(offset, ftype)
			fm.Set = openedFieldSetter(offset, ftype)
		}
		out = append(out, fm)
	}
	return out
}

// Constructors synthesizes the zero-argument constructor. Every Go type
// is zero-constructible, so it is always present and accessible.
func (ReflectProvider) Constructors(t reflect.Type) []Constructor {
	t = indirect(t)
	if t == nil {
		return nil
	}
	return []Constructor{{
		NumParams:  0,
		Accessible: true,
		New: func() (any, error) {
			return reflect.New(t).Interface(), nil
		},
	}}
}

// Super returns the first embedded struct field of t.
func (ReflectProvider) Super(t reflect.Type) (reflect.Type, bool) {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		switch {
		case f.Type.Kind() == reflect.Struct:
			return f.Type, true
		case f.Type.Kind() == reflect.Ptr && f.Type.Elem().Kind() == reflect.Struct:
			return f.Type.Elem(), true
		}
	}
	return nil, false
}

// Interfaces returns the embedded interface fields of t.
func (ReflectProvider) Interfaces(t reflect.Type) []reflect.Type {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Interface {
			out = append(out, f.Type)
		}
	}
	return out
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// methodMember builds a Member from a method name and its func type.
// skip is the number of leading inputs occupied by the receiver.
func methodMember(name string, ftype reflect.Type, skip int) Member {
	params := make([]reflect.Type, 0, ftype.NumIn()-skip)
	for i := skip; i < ftype.NumIn(); i++ {
		params = append(params, ftype.In(i))
	}
	var result reflect.Type
	if ftype.NumOut() == 1 {
		result = ftype.Out(0)
	}
	return Member{
		Name:       name,
		Params:     params,
		Result:     result,
		Accessible: true,
		Invoke:     invokeByName(name),
	}
}

// invokeByName calls the named method on the runtime target. Targets
// passed by value are copied to an addressable temporary for argument-
// free calls; mutating calls on a value copy would be lost, so they
// fail instead.
func invokeByName(name string) func(target any, args ...any) (any, error) {
	return func(target any, args ...any) (any, error) {
		v := reflect.ValueOf(target)
		if !v.IsValid() {
			return nil, fmt.Errorf("introspect: invoke %s on nil target", name)
		}
		m := v.MethodByName(name)
		if !m.IsValid() {
			if len(args) > 0 {
				return nil, fmt.Errorf("introspect: %s on %s requires an addressable target", name, v.Type())
			}
			pv := reflect.New(v.Type())
			pv.Elem().Set(v)
			m = pv.MethodByName(name)
		}
		if !m.IsValid() {
			return nil, fmt.Errorf("introspect: %s has no method %s", v.Type(), name)
		}
		mt := m.Type()
		if mt.NumIn() != len(args) {
			return nil, fmt.Errorf("introspect: %s expects %d args, got %d", name, mt.NumIn(), len(args))
		}
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			if arg == nil {
				in[i] = reflect.Zero(mt.In(i))
				continue
			}
			av := reflect.ValueOf(arg)
			if !av.Type().AssignableTo(mt.In(i)) {
				return nil, fmt.Errorf("introspect: %s arg %d: %s is not assignable to %s", name, i, av.Type(), mt.In(i))
			}
			in[i] = av
		}
		out := m.Call(in)
		if len(out) == 0 {
			return nil, nil
		}
		return out[0].Interface(), nil
	}
}

// structValue unwraps target to its struct value, reporting whether the
// value is addressable (i.e. writes and opened reads can reach it).
func structValue(target any) (reflect.Value, bool, error) {
	v := reflect.ValueOf(target)
	addressable := false
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false, fmt.Errorf("introspect: nil target")
		}
		v = v.Elem()
		addressable = true
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false, fmt.Errorf("introspect: target %s is not a struct", v.Type())
	}
	return v, addressable, nil
}

func exportedFieldGetter(index []int) func(any) (any, error) {
	return func(target any) (any, error) {
		v, _, err := structValue(target)
		if err != nil {
			return nil, err
		}
		return v.FieldByIndex(index).Interface(), nil
	}
}

func exportedFieldSetter(index []int) func(any, any) error {
	return func(target any, value any) error {
		v, addressable, err := structValue(target)
		if err != nil {
			return err
		}
		if !addressable {
			return fmt.Errorf("introspect: set on %s requires a pointer target", v.Type())
		}
		fv := v.FieldByIndex(index)
		return assign(fv, value)
	}
}

// openedFieldGetter reads past visibility using the field offset, the
// same direct access used for scan-time setters.
func openedFieldGetter(offset uintptr, ftype reflect.Type) func(any) (any, error) {
	return func(target any) (any, error) {
		v, addressable, err := structValue(target)
		if err != nil {
			return nil, err
		}
		if !addressable {
			// Copy to an addressable temporary; reads do not need the original.
			pv := reflect.New(v.Type())
			pv.Elem().Set(v)
			v = pv.Elem()
		}
		ptr := unsafe.Pointer(v.UnsafeAddr())
		return reflect.NewAt(ftype, unsafe.Add(ptr, offset)).Elem().Interface(), nil
	}
}

func openedFieldSetter(offset uintptr, ftype reflect.Type) func(any, any) error {
	return func(target any, value any) error {
		v, addressable, err := structValue(target)
		if err != nil {
			return err
		}
		if !addressable {
			return fmt.Errorf("introspect: set on %s requires a pointer target", v.Type())
		}
		ptr := unsafe.Pointer(v.UnsafeAddr())
		fv := reflect.NewAt(ftype, unsafe.Add(ptr, offset)).Elem()
		return assign(fv, value)
	}
}

func assign(fv reflect.Value, value any) error {
	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	av := reflect.ValueOf(value)
	if !av.Type().AssignableTo(fv.Type()) {
		return fmt.Errorf("introspect: cannot assign %s to field of type %s", av.Type(), fv.Type())
	}
	fv.Set(av)
	return nil
}
