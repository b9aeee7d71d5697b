package introspect

import "reflect"

// Member describes a directly declared callable on a type. Providers
// build one per declaration; the descriptor core classifies them into
// accessor candidates by shape and name.
type Member struct {
	// Name is the declared method name.
	Name string
	// Params are the declared parameter types, receiver excluded.
	Params []reflect.Type
	// Result is the sole declared result type, or nil when the callable
	// returns nothing or more than one value.
	Result reflect.Type
	// Synthetic marks a compiler-generated covariant-override thunk.
	// Such members duplicate a real override for dispatch compatibility
	// and are never genuine accessor candidates.
	Synthetic bool
	// Accessible reports whether the member can be invoked as-is.
	Accessible bool
	// Relax attempts to expose an inaccessible member and reports
	// whether the member is now accessible. Best effort: a false return
	// is not an error, the member simply stays closed. Nil means
	// accessibility cannot change.
	Relax func() bool
	// Invoke calls the member on target.
	Invoke func(target any, args ...any) (any, error)
}

// FieldMember describes a directly declared raw-storage member.
type FieldMember struct {
	// Name is the declared field name.
	Name string
	// Type is the declared field type.
	Type reflect.Type
	// Constant marks storage that is immutable by declaration and
	// shared at type level. Constant storage is never writable.
	Constant bool
	// Accessible reports whether the field can be read as-is.
	Accessible bool
	// Relax attempts to expose an inaccessible field, as Member.Relax.
	Relax func() bool
	// Get reads the field from target.
	Get func(target any) (any, error)
	// Set writes value into the field on target.
	Set func(target any, value any) error
}

// Constructor describes a directly declared construction member.
type Constructor struct {
	// NumParams is the declared parameter count.
	NumParams int
	// Accessible reports whether the constructor can be called as-is.
	Accessible bool
	// Relax attempts to expose an inaccessible constructor.
	Relax func() bool
	// New creates a fresh instance.
	New func() (any, error)
}

// Provider is the introspection capability the descriptor core
// consumes: for a type handle it yields the directly declared members,
// the direct supertype, and the directly declared interfaces. All
// methods must be safe for concurrent use.
type Provider interface {
	// Methods returns the callables declared directly on t.
	Methods(t reflect.Type) []Member
	// Fields returns the raw-storage members declared directly on t.
	Fields(t reflect.Type) []FieldMember
	// Constructors returns the constructors declared directly on t,
	// never inherited ones.
	Constructors(t reflect.Type) []Constructor
	// Super returns the direct supertype of t, or ok=false at the root.
	Super(t reflect.Type) (super reflect.Type, ok bool)
	// Interfaces returns the interfaces declared directly on t.
	Interfaces(t reflect.Type) []reflect.Type
}
