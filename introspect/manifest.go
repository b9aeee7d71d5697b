package introspect

import "reflect"

// Manifest is an explicitly registered member catalog implementing
// Provider. It serves two purposes: builds where runtime discovery is
// unavailable or undesirable (members are listed up front, in the
// spirit of generated registration code), and member shapes Go
// reflection can never produce, such as synthetic override thunks,
// inaccessible members, and constant storage.
//
// Registration is not synchronized; populate a Manifest fully before
// sharing it.
type Manifest struct {
	methods map[reflect.Type][]Member
	fields  map[reflect.Type][]FieldMember
	ctors   map[reflect.Type][]Constructor
	supers  map[reflect.Type]reflect.Type
	ifaces  map[reflect.Type][]reflect.Type
}

// NewManifest returns an empty catalog.
func NewManifest() *Manifest {
	return &Manifest{
		methods: make(map[reflect.Type][]Member),
		fields:  make(map[reflect.Type][]FieldMember),
		ctors:   make(map[reflect.Type][]Constructor),
		supers:  make(map[reflect.Type]reflect.Type),
		ifaces:  make(map[reflect.Type][]reflect.Type),
	}
}

// Type starts registration for t and returns its builder.
func (m *Manifest) Type(t reflect.Type) *TypeManifest {
	return &TypeManifest{manifest: m, t: t}
}

// TypeManifest accumulates declarations for a single type.
type TypeManifest struct {
	manifest *Manifest
	t        reflect.Type
}

// Method registers a directly declared callable.
func (tm *TypeManifest) Method(member Member) *TypeManifest {
	tm.manifest.methods[tm.t] = append(tm.manifest.methods[tm.t], member)
	return tm
}

// Field registers a directly declared raw-storage member.
func (tm *TypeManifest) Field(field FieldMember) *TypeManifest {
	tm.manifest.fields[tm.t] = append(tm.manifest.fields[tm.t], field)
	return tm
}

// Constructor registers a directly declared constructor.
func (tm *TypeManifest) Constructor(ctor Constructor) *TypeManifest {
	tm.manifest.ctors[tm.t] = append(tm.manifest.ctors[tm.t], ctor)
	return tm
}

// Super declares the direct supertype.
func (tm *TypeManifest) Super(super reflect.Type) *TypeManifest {
	tm.manifest.supers[tm.t] = super
	return tm
}

// Interface declares a directly implemented interface.
func (tm *TypeManifest) Interface(iface reflect.Type) *TypeManifest {
	tm.manifest.ifaces[tm.t] = append(tm.manifest.ifaces[tm.t], iface)
	return tm
}

// Methods implements Provider.
func (m *Manifest) Methods(t reflect.Type) []Member { return m.methods[t] }

// Fields implements Provider.
func (m *Manifest) Fields(t reflect.Type) []FieldMember { return m.fields[t] }

// Constructors implements Provider.
func (m *Manifest) Constructors(t reflect.Type) []Constructor { return m.ctors[t] }

// Super implements Provider.
func (m *Manifest) Super(t reflect.Type) (reflect.Type, bool) {
	s, ok := m.supers[t]
	return s, ok
}

// Interfaces implements Provider.
func (m *Manifest) Interfaces(t reflect.Type) []reflect.Type { return m.ifaces[t] }

var _ Provider = (*Manifest)(nil)
