package descriptor

import (
	"errors"
	"reflect"
	"strings"

	"github.com/descry-dev/descry/introspect"
	"github.com/descry-dev/descry/naming"
)

// New builds the Descriptor for t from the provider's view of its
// members. Construction is a single synchronous pass; it fails as a
// whole on contradictory accessor declarations.
func New(t reflect.Type, provider introspect.Provider) (*Descriptor, error) {
	if t == nil {
		return nil, errors.New("descriptor: nil type")
	}
	if provider == nil {
		provider = introspect.NewReflectProvider()
	}
	b := &build{
		typ:      t,
		provider: provider,
		getters:  make(map[string]Accessor),
		setters:  make(map[string]Accessor),
		getTypes: make(map[string]reflect.Type),
		setTypes: make(map[string]reflect.Type),
	}
	b.addDefaultConstructor()
	members := b.uniqueMembers()
	if err := b.addGetters(members); err != nil {
		return nil, err
	}
	if err := b.addSetters(members); err != nil {
		return nil, err
	}
	b.addFields()
	return b.finish(), nil
}

// Of builds a reflection-backed Descriptor for v's type, unwrapping
// pointers.
func Of(v any) (*Descriptor, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return New(t, introspect.NewReflectProvider())
}

type build struct {
	typ      reflect.Type
	provider introspect.Provider
	getters  map[string]Accessor
	setters  map[string]Accessor
	getTypes map[string]reflect.Type
	setTypes map[string]reflect.Type
	ctor     introspect.Constructor
	hasCtor  bool
}

// uniqueMembers collects the callables of the whole member hierarchy,
// unique by signature: the type itself, every supertype up to the root,
// and each level's declared interfaces (interface contracts of abstract
// types may never appear as concrete declarations in between). The
// most-derived declaration of a signature wins, matching override
// semantics; synthetic override thunks are dropped outright.
func (b *build) uniqueMembers() []introspect.Member {
	seen := make(map[string]introspect.Member)
	for cur, ok := b.typ, true; ok; cur, ok = b.provider.Super(cur) {
		b.mergeUnique(seen, b.provider.Methods(cur))
		for _, iface := range b.provider.Interfaces(cur) {
			b.mergeUnique(seen, b.provider.Methods(iface))
		}
	}
	out := make([]introspect.Member, 0, len(seen))
	for _, m := range seen {
		out = append(out, m)
	}
	return out
}

func (b *build) mergeUnique(seen map[string]introspect.Member, members []introspect.Member) {
	for _, m := range members {
		if m.Synthetic {
			continue
		}
		sig := signature(m)
		if _, ok := seen[sig]; ok {
			continue
		}
		if !m.Accessible && m.Relax != nil {
			// Best effort; a member the capability refuses to open
			// simply stays closed.
			m.Accessible = m.Relax()
		}
		seen[sig] = m
	}
}

// signature identifies a callable by declared result type, name, and
// ordered parameter types.
func signature(m introspect.Member) string {
	var sb strings.Builder
	if m.Result != nil {
		sb.WriteString(m.Result.String())
	} else {
		sb.WriteString("void")
	}
	sb.WriteByte('#')
	sb.WriteString(m.Name)
	for i, p := range m.Params {
		if i == 0 {
			sb.WriteByte(':')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// addGetters classifies getter-shaped members (no parameters, exactly
// one result, convention name) into per-property candidate groups and
// resolves each group to one canonical accessor.
func (b *build) addGetters(members []introspect.Member) error {
	candidates := make(map[string][]introspect.Member)
	for _, m := range members {
		if !m.Accessible || len(m.Params) != 0 || m.Result == nil {
			continue
		}
		if !naming.IsGetterName(m.Name) {
			continue
		}
		prop, err := naming.PropertyName(m.Name)
		if err != nil {
			continue
		}
		candidates[prop] = append(candidates[prop], m)
	}
	return b.resolveGetterConflicts(candidates)
}

// resolveGetterConflicts reduces each candidate group to one winner.
// Identical result types are legal only for booleans, where the
// boolean-query spelling is preferred; otherwise the narrower of two
// related types wins and unrelated types are a fatal ambiguity.
func (b *build) resolveGetterConflicts(candidates map[string][]introspect.Member) error {
	for prop, group := range candidates {
		winner := group[0]
		for _, candidate := range group[1:] {
			wtype, ctype := winner.Result, candidate.Result
			switch {
			case ctype == wtype:
				if ctype.Kind() != reflect.Bool {
					return ambiguousGetter(prop, b.typ, wtype, ctype)
				}
				if naming.IsBooleanQueryName(candidate.Name) {
					winner = candidate
				}
			case wtype.AssignableTo(ctype):
				// winner is already the narrower type
			case ctype.AssignableTo(wtype):
				winner = candidate
			default:
				return ambiguousGetter(prop, b.typ, wtype, ctype)
			}
		}
		b.addGetter(prop, winner)
	}
	return nil
}

// addSetters classifies setter-shaped members (exactly one parameter,
// convention name) and resolves each group, preferring an exact match
// with the already-resolved getter type.
func (b *build) addSetters(members []introspect.Member) error {
	candidates := make(map[string][]introspect.Member)
	for _, m := range members {
		if !m.Accessible || len(m.Params) != 1 {
			continue
		}
		if !naming.IsSetterName(m.Name) {
			continue
		}
		prop, err := naming.PropertyName(m.Name)
		if err != nil {
			continue
		}
		candidates[prop] = append(candidates[prop], m)
	}
	return b.resolveSetterConflicts(candidates)
}

// resolveSetterConflicts folds each group pairwise. A candidate whose
// parameter type equals the resolved getter type wins immediately.
// Ambiguities between unrelated parameter types are recorded but
// deferred: a later exact match still takes precedence, and only an
// exhausted group surfaces the recorded error.
func (b *build) resolveSetterConflicts(candidates map[string][]introspect.Member) error {
	for prop, group := range candidates {
		getterType := b.getTypes[prop]
		var winner *introspect.Member
		var ambiguity error
		for i := range group {
			candidate := group[i]
			if getterType != nil && candidate.Params[0] == getterType {
				winner = &candidate
				break
			}
			if ambiguity == nil {
				better, err := betterSetter(winner, &candidate, prop, b.typ)
				if err != nil {
					winner, ambiguity = nil, err
					continue
				}
				winner = better
			}
		}
		if winner == nil {
			return ambiguity
		}
		b.addSetter(prop, *winner)
	}
	return nil
}

// betterSetter picks the narrower of two setter candidates, or fails
// when their parameter types are unrelated.
func betterSetter(current, candidate *introspect.Member, prop string, typ reflect.Type) (*introspect.Member, error) {
	if current == nil {
		return candidate, nil
	}
	ctype, ntype := current.Params[0], candidate.Params[0]
	if ntype.AssignableTo(ctype) {
		return candidate, nil
	}
	if ctype.AssignableTo(ntype) {
		return current, nil
	}
	return nil, ambiguousSetter(prop, typ, ctype, ntype)
}

// addFields walks the supertype chain registering raw storage as
// fallback accessors for properties not already covered by a resolved
// method-based accessor. Constant storage is never registered writable.
func (b *build) addFields() {
	for cur, ok := b.typ, true; ok; cur, ok = b.provider.Super(cur) {
		for _, f := range b.provider.Fields(cur) {
			accessible := f.Accessible
			if !accessible && f.Relax != nil {
				accessible = f.Relax()
			}
			if !accessible {
				continue
			}
			prop := naming.FieldProperty(f.Name)
			if _, ok := b.setters[prop]; !ok && !f.Constant {
				b.addSetField(prop, f)
			}
			if _, ok := b.getters[prop]; !ok {
				b.addGetField(prop, f)
			}
		}
	}
}

func (b *build) addGetter(prop string, m introspect.Member) {
	if !isValidProperty(prop) {
		return
	}
	b.getters[prop] = methodGetter{member: m}
	b.getTypes[prop] = m.Result
}

func (b *build) addSetter(prop string, m introspect.Member) {
	if !isValidProperty(prop) {
		return
	}
	b.setters[prop] = methodSetter{member: m}
	b.setTypes[prop] = m.Params[0]
}

func (b *build) addGetField(prop string, f introspect.FieldMember) {
	if !isValidProperty(prop) {
		return
	}
	b.getters[prop] = fieldAccessor{field: f}
	b.getTypes[prop] = f.Type
}

func (b *build) addSetField(prop string, f introspect.FieldMember) {
	if !isValidProperty(prop) {
		return
	}
	b.setters[prop] = fieldAccessor{field: f}
	b.setTypes[prop] = f.Type
}

// addDefaultConstructor records an accessible zero-argument constructor
// among the type's directly declared constructors.
func (b *build) addDefaultConstructor() {
	for _, c := range b.provider.Constructors(b.typ) {
		if c.NumParams != 0 {
			continue
		}
		accessible := c.Accessible
		if !accessible && c.Relax != nil {
			accessible = c.Relax()
		}
		if accessible {
			b.ctor, b.hasCtor = c, true
		}
	}
}

// finish snapshots the name sets and builds the case-insensitive index.
// On a case-insensitive collision the later-processed name overwrites
// the earlier one.
func (b *build) finish() *Descriptor {
	d := &Descriptor{
		typ:       b.typ,
		getters:   b.getters,
		setters:   b.setters,
		getTypes:  b.getTypes,
		setTypes:  b.setTypes,
		readable:  make([]string, 0, len(b.getters)),
		writable:  make([]string, 0, len(b.setters)),
		ctor:      b.ctor,
		hasCtor:   b.hasCtor,
		caseIndex: make(map[string]string, len(b.getters)+len(b.setters)),
	}
	for prop := range b.getters {
		d.readable = append(d.readable, prop)
	}
	for prop := range b.setters {
		d.writable = append(d.writable, prop)
	}
	for _, prop := range d.readable {
		d.caseIndex[strings.ToUpper(prop)] = prop
	}
	for _, prop := range d.writable {
		d.caseIndex[strings.ToUpper(prop)] = prop
	}
	return d
}

// isValidProperty filters names that carry binding metadata rather than
// state: the reserved "$" marker, the serialization version slot, and
// the meta-property naming the type itself.
func isValidProperty(name string) bool {
	return !strings.HasPrefix(name, "$") && name != "schemaVersion" && name != "entityType"
}
