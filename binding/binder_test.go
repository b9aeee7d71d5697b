package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/cache"
	"github.com/descry-dev/descry/descriptor"
)

// =========================================================================
// Test Fixtures
// =========================================================================

type user struct {
	id        uint64
	firstName string
	email     string
	active    bool
}

func (u *user) GetId() uint64         { return u.id }
func (u *user) SetId(v uint64)        { u.id = v }
func (u *user) GetFirstName() string  { return u.firstName }
func (u *user) SetFirstName(v string) { u.firstName = v }
func (u *user) GetEmail() string      { return u.email }
func (u *user) SetEmail(v string)     { u.email = v }
func (u *user) IsActive() bool        { return u.active }
func (u *user) SetActive(v bool)      { u.active = v }

// =========================================================================
// Bind
// =========================================================================

func TestBind(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))

	u := &user{}
	err := b.Bind(u, map[string]any{
		"Id":        uint64(7),
		"FIRSTNAME": "ada",
		"email":     "ada@example.com",
		"Active":    true,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(7), u.id)
	assert.Equal(t, "ada", u.firstName)
	assert.Equal(t, "ada@example.com", u.email)
	assert.True(t, u.active)
}

func TestBindConvertsCompatibleKinds(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))

	u := &user{}
	require.NoError(t, b.Bind(u, map[string]any{"Id": 7}))
	assert.Equal(t, uint64(7), u.id)
}

func TestBindRefusesNumericToString(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))

	err := b.Bind(&user{}, map[string]any{"Email": 42})
	assert.Error(t, err)
}

func TestBindUnknownKey(t *testing.T) {
	u := &user{}

	strict := NewBinder(WithRegistry(cache.New()))
	err := strict.Bind(u, map[string]any{"nope": 1})
	assert.ErrorIs(t, err, descriptor.ErrNoSuchProperty)

	lenient := NewBinder(WithRegistry(cache.New()), WithUnknownKeys(true))
	err = lenient.Bind(u, map[string]any{"nope": 1, "FirstName": "ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada", u.firstName)
}

func TestBindNilTarget(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))
	err := b.Bind(nil, map[string]any{"Id": 1})
	assert.ErrorIs(t, err, cache.ErrNilType)
}

// =========================================================================
// Extract
// =========================================================================

func TestExtract(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))

	u := &user{id: 3, firstName: "ada", email: "ada@example.com", active: true}
	out, err := b.Extract(u)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"id":        uint64(3),
		"firstName": "ada",
		"email":     "ada@example.com",
		"active":    true,
	}, out)
}

func TestBindExtractRoundTrip(t *testing.T) {
	b := NewBinder(WithRegistry(cache.New()))

	src := &user{id: 9, firstName: "grace", email: "g@example.com", active: true}
	values, err := b.Extract(src)
	require.NoError(t, err)

	dst := &user{}
	require.NoError(t, b.Bind(dst, values))
	assert.Equal(t, src, dst)
}
