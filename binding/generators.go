package binding

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generators produce fresh identifier values that Populate writes
// through a property's resolved set accessor.

// Generator produces values of one identifier scheme.
type Generator interface {
	Generate() (any, error)
	Kind() string
}

// UUIDGenerator generates UUID v4 values.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() (any, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("binding: generate uuid: %w", err)
	}
	return id, nil
}

func (UUIDGenerator) Kind() string { return "uuid" }

// ULIDGenerator generates monotonic ULID values.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator creates a ULID generator with monotonic entropy.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return nil, fmt.Errorf("binding: generate ulid: %w", err)
	}
	return id, nil
}

func (g *ULIDGenerator) Kind() string { return "ulid" }

// SnowflakeGenerator generates time-ordered 63-bit IDs:
// 41 bits timestamp, 10 bits machine, 12 bits sequence.
type SnowflakeGenerator struct {
	mu        sync.Mutex
	machineID uint64
	sequence  uint64
	lastTime  uint64
	epoch     uint64
}

// NewSnowflakeGenerator creates a snowflake generator for machineID
// (truncated to 10 bits). The epoch is 2023-01-01 UTC.
func NewSnowflakeGenerator(machineID uint64) *SnowflakeGenerator {
	epoch := uint64(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	return &SnowflakeGenerator{
		machineID: machineID & 0x3FF,
		epoch:     epoch,
	}
}

func (g *SnowflakeGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := uint64(time.Now().UnixMilli())
	if now < g.lastTime {
		return nil, fmt.Errorf("binding: snowflake clock moved backwards")
	}
	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & 0xFFF
		if g.sequence == 0 {
			for now <= g.lastTime {
				now = uint64(time.Now().UnixMilli())
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	id := ((now - g.epoch) << 22) | (g.machineID << 12) | g.sequence
	return int64(id), nil
}

func (g *SnowflakeGenerator) Kind() string { return "snowflake" }

// NanoIDGenerator generates NanoID strings.
type NanoIDGenerator struct {
	size     int
	alphabet string
}

// NewNanoIDGenerator creates a NanoID generator. Zero size and empty
// alphabet select the standard 21-character URL-safe defaults.
func NewNanoIDGenerator(size int, alphabet string) *NanoIDGenerator {
	if size <= 0 {
		size = 21
	}
	if alphabet == "" {
		alphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	}
	return &NanoIDGenerator{size: size, alphabet: alphabet}
}

func (g *NanoIDGenerator) Generate() (any, error) {
	raw := make([]byte, g.size)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("binding: generate nanoid: %w", err)
	}
	id := make([]byte, g.size)
	for i := range raw {
		id[i] = g.alphabet[raw[i]%byte(len(g.alphabet))]
	}
	return string(id), nil
}

func (g *NanoIDGenerator) Kind() string { return "nanoid" }

// GeneratorRegistry maps scheme names to generators.
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewGeneratorRegistry creates a registry preloaded with the uuid,
// ulid, snowflake, and nanoid schemes.
func NewGeneratorRegistry() *GeneratorRegistry {
	r := &GeneratorRegistry{generators: make(map[string]Generator)}
	r.Register(UUIDGenerator{})
	r.Register(NewULIDGenerator())
	r.Register(NewSnowflakeGenerator(1))
	r.Register(NewNanoIDGenerator(0, ""))
	return r
}

// Register adds or replaces a generator under its Kind.
func (r *GeneratorRegistry) Register(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[g.Kind()] = g
}

// Generate produces a value of the named scheme.
func (r *GeneratorRegistry) Generate(kind string) (any, error) {
	r.mu.RLock()
	g, ok := r.generators[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("binding: unknown generator kind %q", kind)
	}
	return g.Generate()
}

var defaultGenerators = NewGeneratorRegistry()

// RegisterGenerator adds a generator to the package-level registry.
func RegisterGenerator(g Generator) {
	defaultGenerators.Register(g)
}

// GenerateValue produces a value of the named scheme from the
// package-level registry.
func GenerateValue(kind string) (any, error) {
	return defaultGenerators.Generate(kind)
}

// Populate generates a value of the named scheme and writes it through
// the property's set accessor, adapting it to the setter type (UUIDs
// and ULIDs land in string properties via their canonical encoding).
func (b *Binder) Populate(target any, property, kind string) error {
	d, err := b.registry.DescribeValue(target)
	if err != nil {
		return err
	}
	prop := property
	if canonical, ok := d.FindPropertyName(property); ok {
		prop = canonical
	}
	setter, err := d.Setter(prop)
	if err != nil {
		return err
	}
	value, err := GenerateValue(kind)
	if err != nil {
		return err
	}
	adapted, err := adapt(value, setter.Type())
	if err != nil {
		return fmt.Errorf("binding: populate %q: %w", prop, err)
	}
	if err := setter.Set(target, adapted); err != nil {
		return fmt.Errorf("binding: populate %q: %w", prop, err)
	}
	return nil
}
