package binding

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/cache"
)

type document struct {
	key      string
	sequence int64
}

func (d *document) GetKey() string      { return d.key }
func (d *document) SetKey(v string)     { d.key = v }
func (d *document) GetSequence() int64  { return d.sequence }
func (d *document) SetSequence(v int64) { d.sequence = v }

func TestGenerators(t *testing.T) {
	tests := []struct {
		kind  string
		check func(t *testing.T, v any)
	}{
		{"uuid", func(t *testing.T, v any) {
			id, ok := v.(uuid.UUID)
			require.True(t, ok)
			assert.NotEqual(t, uuid.Nil, id)
		}},
		{"ulid", func(t *testing.T, v any) {
			_, ok := v.(ulid.ULID)
			assert.True(t, ok)
		}},
		{"snowflake", func(t *testing.T, v any) {
			id, ok := v.(int64)
			require.True(t, ok)
			assert.Positive(t, id)
		}},
		{"nanoid", func(t *testing.T, v any) {
			s, ok := v.(string)
			require.True(t, ok)
			assert.Len(t, s, 21)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			v, err := GenerateValue(tt.kind)
			require.NoError(t, err)
			tt.check(t, v)
		})
	}
}

func TestGeneratorsProduceDistinctValues(t *testing.T) {
	for _, kind := range []string{"uuid", "ulid", "snowflake", "nanoid"} {
		t.Run(kind, func(t *testing.T) {
			a, err := GenerateValue(kind)
			require.NoError(t, err)
			b, err := GenerateValue(kind)
			require.NoError(t, err)
			assert.NotEqual(t, a, b)
		})
	}
}

func TestUnknownGeneratorKind(t *testing.T) {
	_, err := GenerateValue("tarot")
	assert.Error(t, err)
}

type fixedGenerator struct{ value any }

func (g fixedGenerator) Generate() (any, error) { return g.value, nil }
func (g fixedGenerator) Kind() string           { return "fixed" }

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewGeneratorRegistry()
	r.Register(fixedGenerator{value: "a"})
	v, err := r.Generate("fixed")
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	r.Register(fixedGenerator{value: "b"})
	v, err = r.Generate("fixed")
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestPopulate(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))

	// UUIDs land in string properties through their canonical encoding.
	doc := &document{}
	require.NoError(t, b.Populate(doc, "Key", "uuid"))
	parsed, err := uuid.Parse(doc.key)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, parsed)

	require.NoError(t, b.Populate(doc, "sequence", "snowflake"))
	assert.Positive(t, doc.sequence)
}

func TestPopulateUnknownProperty(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))
	err := b.Populate(&document{}, "missing", "uuid")
	assert.Error(t, err)
}
