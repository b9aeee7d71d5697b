// Package cache memoizes descriptors per type. A descriptor is a pure
// function of its type, so the registry caches it for the process
// lifetime with at-most-once construction per type.
package cache

import (
	"errors"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/descry-dev/descry/descriptor"
	"github.com/descry-dev/descry/introspect"
)

// ErrNilType is returned when a nil type is requested.
var ErrNilType = errors.New("cache: nil type")

// entry pairs a built descriptor with its construction error. Failed
// builds are cached too: a type with contradictory accessor
// declarations re-raises the same failure on every later request
// instead of re-running the build.
type entry struct {
	desc *descriptor.Descriptor
	err  error
}

// Registry caches descriptors keyed by type identity.
type Registry struct {
	provider introspect.Provider
	store    *lru.Cache[reflect.Type, entry]
	group    singleflight.Group
	onEvict  func(reflect.Type, *descriptor.Descriptor)
}

// Option configures a Registry.
type Option func(*settings)

type settings struct {
	provider introspect.Provider
	size     int
	onEvict  func(reflect.Type, *descriptor.Descriptor)
}

// WithProvider sets the introspection capability used for builds.
func WithProvider(p introspect.Provider) Option {
	return func(s *settings) { s.provider = p }
}

// WithCacheSize sets the LRU capacity for cached descriptors.
func WithCacheSize(size int) Option {
	return func(s *settings) { s.size = size }
}

// WithEvictionCallback sets a callback invoked when a built descriptor
// falls out of the cache.
func WithEvictionCallback(fn func(reflect.Type, *descriptor.Descriptor)) Option {
	return func(s *settings) { s.onEvict = fn }
}

// New creates a Registry.
func New(options ...Option) *Registry {
	s := settings{
		provider: introspect.NewReflectProvider(),
		size:     256,
	}
	for _, opt := range options {
		opt(&s)
	}
	if s.size < 1 {
		s.size = 1
	}
	r := &Registry{provider: s.provider, onEvict: s.onEvict}
	store, _ := lru.NewWithEvict(s.size, func(t reflect.Type, e entry) {
		if r.onEvict != nil && e.desc != nil {
			r.onEvict(t, e.desc)
		}
	})
	r.store = store
	return r
}

// Describe returns the cached descriptor for t, building it on first
// request. Pointer types are unwrapped. Concurrent first requests for
// the same type collapse into a single build.
func (r *Registry) Describe(t reflect.Type) (*descriptor.Descriptor, error) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return nil, ErrNilType
	}
	if e, ok := r.store.Get(t); ok {
		return e.desc, e.err
	}
	r.group.Do(typeKey(t), func() (any, error) {
		if _, ok := r.store.Get(t); !ok {
			d, err := descriptor.New(t, r.provider)
			r.store.Add(t, entry{desc: d, err: err})
		}
		return nil, nil
	})
	// The store is keyed by type identity, so a hit here is always ours.
	// A miss means we joined the flight of a distinct type sharing the
	// string key (possible for function-local types); build directly.
	if e, ok := r.store.Get(t); ok {
		return e.desc, e.err
	}
	d, err := descriptor.New(t, r.provider)
	r.store.Add(t, entry{desc: d, err: err})
	return d, err
}

// DescribeValue returns the cached descriptor for v's type.
func (r *Registry) DescribeValue(v any) (*descriptor.Descriptor, error) {
	if v == nil {
		return nil, ErrNilType
	}
	return r.Describe(reflect.TypeOf(v))
}

// Len returns the number of cached types.
func (r *Registry) Len() int { return r.store.Len() }

// Purge drops every cached descriptor.
func (r *Registry) Purge() { r.store.Purge() }

// typeKey derives a build-coalescing key. Type identity is the
// reflect.Type itself; the string form only scopes the singleflight
// group, where a rare collision costs a joined build, not correctness.
func typeKey(t reflect.Type) string {
	return t.PkgPath() + "/" + t.String()
}

// defaultRegistry backs the package-level convenience functions.
var defaultRegistry = New()

// Default returns the package-level registry.
func Default() *Registry { return defaultRegistry }

// Describe returns the descriptor for t from the package-level registry.
func Describe(t reflect.Type) (*descriptor.Descriptor, error) {
	return defaultRegistry.Describe(t)
}

// DescribeValue returns the descriptor for v's type from the
// package-level registry.
func DescribeValue(v any) (*descriptor.Descriptor, error) {
	return defaultRegistry.DescribeValue(v)
}
