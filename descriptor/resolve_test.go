package descriptor

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/introspect"
)

// =========================================================================
// Getter Resolution Fixtures
// =========================================================================

type streamBase struct{}

func (streamBase) GetSource() io.Reader { return nil }

type stream struct {
	streamBase
	buf *bytes.Buffer
}

func (s *stream) GetSource() *bytes.Buffer { return s.buf }

type gaugeBase struct{}

func (gaugeBase) GetValue() string { return "" }

type gauge struct {
	gaugeBase
}

func (gauge) GetValue() int { return 0 }

type counter struct{}

func (counter) GetTotal() int { return 1 }
func (counter) IsTotal() int  { return 2 }

type toggle struct {
	viaIs  bool
	viaGet bool
}

func (t *toggle) IsEnabled() bool {
	t.viaIs = true
	return true
}

func (t *toggle) GetEnabled() bool {
	t.viaGet = true
	return true
}

// =========================================================================
// Setter Resolution Fixtures
// =========================================================================

type sinkBase struct{}

func (sinkBase) SetOutput(w io.Writer) {}
func (sinkBase) SetTarget(w io.Writer) {}

type sink struct {
	sinkBase
	out    *bytes.Buffer
	target *bytes.Buffer
}

func (s *sink) GetOutput() *bytes.Buffer  { return s.out }
func (s *sink) SetOutput(b *bytes.Buffer) { s.out = b }
func (s *sink) SetTarget(b *bytes.Buffer) { s.target = b }

// =========================================================================
// Getter Resolution
// =========================================================================

func TestOverridingGetterNarrowsType(t *testing.T) {
	d, err := Of(&stream{})
	require.NoError(t, err)

	gt, err := d.GetterType("source")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(&bytes.Buffer{}), gt)

	buf := bytes.NewBufferString("x")
	getter, err := d.Getter("source")
	require.NoError(t, err)
	got, err := getter.Get(&stream{buf: buf})
	require.NoError(t, err)
	assert.Same(t, buf, got)
}

func TestUnrelatedGetterTypesFail(t *testing.T) {
	d, err := Of(&gauge{})
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrAmbiguousAccessor)
}

func TestIdenticalNonBooleanGettersFail(t *testing.T) {
	d, err := Of(&counter{})
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrAmbiguousAccessor)
}

func TestBooleanQuerySpellingWins(t *testing.T) {
	d, err := Of(&toggle{})
	require.NoError(t, err)

	getter, err := d.Getter("enabled")
	require.NoError(t, err)

	tg := &toggle{}
	_, err = getter.Get(tg)
	require.NoError(t, err)
	assert.True(t, tg.viaIs)
	assert.False(t, tg.viaGet)
}

// =========================================================================
// Setter Resolution
// =========================================================================

func TestSetterMatchingGetterTypeWins(t *testing.T) {
	d, err := Of(&sink{})
	require.NoError(t, err)

	st, err := d.SetterType("output")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(&bytes.Buffer{}), st)

	s := &sink{}
	setter, err := d.Setter("output")
	require.NoError(t, err)
	buf := bytes.NewBufferString("x")
	require.NoError(t, setter.Set(s, buf))
	assert.Same(t, buf, s.out)
}

func TestNarrowerSetterWinsWithoutGetter(t *testing.T) {
	// No getter exists for "target", so resolution falls back to the
	// narrower of the two related parameter types.
	d, err := Of(&sink{})
	require.NoError(t, err)

	st, err := d.SetterType("target")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(&bytes.Buffer{}), st)
}

// =========================================================================
// Manifest-Backed Resolution
// =========================================================================

var (
	stringType = reflect.TypeOf("")
	intType    = reflect.TypeOf(0)
	floatType  = reflect.TypeOf(0.0)
)

func manifestFor(key reflect.Type) (*introspect.Manifest, *introspect.TypeManifest) {
	m := introspect.NewManifest()
	return m, m.Type(key)
}

func TestSyntheticThunksAreIgnored(t *testing.T) {
	key := reflect.TypeOf(struct{ syntheticMarker bool }{})
	m, tm := manifestFor(key)
	tm.Method(introspect.Member{Name: "GetTitle", Result: stringType, Accessible: true}).
		Method(introspect.Member{Name: "GetTitle", Result: intType, Accessible: true, Synthetic: true})

	d, err := New(key, m)
	require.NoError(t, err)

	gt, err := d.GetterType("title")
	require.NoError(t, err)
	assert.Equal(t, stringType, gt)
}

func TestExactSetterMatchOverridesRecordedAmbiguity(t *testing.T) {
	key := reflect.TypeOf(struct{ exactMarker bool }{})
	m, tm := manifestFor(key)
	tm.Method(introspect.Member{Name: "GetAmount", Result: floatType, Accessible: true}).
		Method(introspect.Member{Name: "SetAmount", Params: []reflect.Type{stringType}, Accessible: true}).
		Method(introspect.Member{Name: "SetAmount", Params: []reflect.Type{intType}, Accessible: true}).
		Method(introspect.Member{Name: "SetAmount", Params: []reflect.Type{floatType}, Accessible: true})

	d, err := New(key, m)
	require.NoError(t, err)

	st, err := d.SetterType("amount")
	require.NoError(t, err)
	assert.Equal(t, floatType, st)
}

func TestUnrelatedSettersWithoutGetterFail(t *testing.T) {
	key := reflect.TypeOf(struct{ unrelatedMarker bool }{})
	m, tm := manifestFor(key)
	tm.Method(introspect.Member{Name: "SetAmount", Params: []reflect.Type{stringType}, Accessible: true}).
		Method(introspect.Member{Name: "SetAmount", Params: []reflect.Type{intType}, Accessible: true})

	d, err := New(key, m)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrAmbiguousAccessor)
}

func TestMostDerivedDeclarationWins(t *testing.T) {
	derivedKey := reflect.TypeOf(struct{ derivedMarker bool }{})
	baseKey := reflect.TypeOf(struct{ baseMarker bool }{})

	m := introspect.NewManifest()
	m.Type(derivedKey).
		Method(introspect.Member{
			Name: "GetKind", Result: stringType, Accessible: true,
			Invoke: func(any, ...any) (any, error) { return "derived", nil },
		}).
		Super(baseKey)
	m.Type(baseKey).
		Method(introspect.Member{
			Name: "GetKind", Result: stringType, Accessible: true,
			Invoke: func(any, ...any) (any, error) { return "base", nil },
		})

	d, err := New(derivedKey, m)
	require.NoError(t, err)

	getter, err := d.Getter("kind")
	require.NoError(t, err)
	got, err := getter.Get(nil)
	require.NoError(t, err)
	assert.Equal(t, "derived", got)
}

func TestInaccessibleMemberStaysClosed(t *testing.T) {
	key := reflect.TypeOf(struct{ closedMarker bool }{})
	m, tm := manifestFor(key)
	tm.Method(introspect.Member{Name: "GetHidden", Result: stringType, Accessible: false}).
		Method(introspect.Member{
			Name: "GetOpened", Result: stringType, Accessible: false,
			Relax: func() bool { return true },
		})

	d, err := New(key, m)
	require.NoError(t, err)

	assert.False(t, d.HasGetter("hidden"))
	assert.True(t, d.HasGetter("opened"))
}

func TestConstantFieldIsNeverWritable(t *testing.T) {
	key := reflect.TypeOf(struct{ constantMarker bool }{})
	m, tm := manifestFor(key)
	tm.Field(introspect.FieldMember{
		Name: "revision", Type: intType, Constant: true, Accessible: true,
		Get: func(any) (any, error) { return 7, nil },
	})

	d, err := New(key, m)
	require.NoError(t, err)

	require.True(t, d.HasGetter("revision"))
	assert.False(t, d.HasSetter("revision"))
	_, err = d.Setter("revision")
	assert.ErrorIs(t, err, ErrNoSuchProperty)

	getter, err := d.Getter("revision")
	require.NoError(t, err)
	got, err := getter.Get(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestReservedNamesAreFiltered(t *testing.T) {
	key := reflect.TypeOf(struct{ reservedMarker bool }{})
	m, tm := manifestFor(key)
	tm.Field(introspect.FieldMember{Name: "$state", Type: stringType, Accessible: true}).
		Field(introspect.FieldMember{Name: "SchemaVersion", Type: intType, Accessible: true}).
		Field(introspect.FieldMember{Name: "EntityType", Type: stringType, Accessible: true}).
		Field(introspect.FieldMember{Name: "Label", Type: stringType, Accessible: true})

	d, err := New(key, m)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"label"}, d.ReadableNames())
	assert.ElementsMatch(t, []string{"label"}, d.WritableNames())
}

func TestConstructorDiscovery(t *testing.T) {
	tests := []struct {
		name  string
		ctors []introspect.Constructor
		found bool
	}{
		{"None", nil, false},
		{"WrongArity", []introspect.Constructor{{NumParams: 2, Accessible: true}}, false},
		{"Inaccessible", []introspect.Constructor{{
			NumParams: 0, Accessible: false, Relax: func() bool { return false },
		}}, false},
		{"Relaxed", []introspect.Constructor{{
			NumParams: 0, Accessible: false, Relax: func() bool { return true },
			New: func() (any, error) { return "made", nil },
		}}, true},
		{"Accessible", []introspect.Constructor{{
			NumParams: 0, Accessible: true,
			New: func() (any, error) { return "made", nil },
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := reflect.TypeOf(struct{ ctorMarker *testing.T }{})
			m, tm := manifestFor(key)
			for _, c := range tt.ctors {
				tm.Constructor(c)
			}

			d, err := New(key, m)
			require.NoError(t, err)

			assert.Equal(t, tt.found, d.HasDefaultConstructor())
			obj, err := d.Instantiate()
			if !tt.found {
				assert.ErrorIs(t, err, ErrNoDefaultConstructor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "made", obj)
		})
	}
}
