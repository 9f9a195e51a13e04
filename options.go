package rhmap

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Probing selects how an entry walks the slots when its home slot is taken
type Probing uint8

const (
	// ProbeWrap is Robin Hood probing with wraparound: a richer resident is
	// evicted and carried forward from the next slot.
	ProbeWrap Probing = iota

	// ProbeTailAppend probes forward without wrapping. An evicted resident
	// starts over from its own home slot and an entry that runs off the end
	// of the slots is appended past it.
	ProbeTailAppend
)

func (p Probing) String() string {
	switch p {
	case ProbeWrap:
		return "wrap"
	case ProbeTailAppend:
		return "append"
	default:
		return fmt.Sprintf("Probing(%d)", uint8(p))
	}
}

// ParseProbing returns the probing policy with the given name
func ParseProbing(name string) (Probing, error) {
	switch name {
	case "wrap":
		return ProbeWrap, nil
	case "append":
		return ProbeTailAppend, nil
	}
	return 0, fmt.Errorf("unknown probing policy %q", name)
}

type config struct {
	capacity   uintptr
	provider   HashProvider
	probing    Probing
	bloomItems uint
	bloomRate  float64
	logger     logr.Logger
}

// Option configures a Map created with New
type Option func(*config)

// WithCapacity allocates n vacant slots up front. Pre-sizing the map
// prevents grow operations until the load factor is reached.
func WithCapacity(n uintptr) Option {
	return func(c *config) { c.capacity = n }
}

// WithHashProvider overrides the default Fx provider
func WithHashProvider(p HashProvider) Option {
	return func(c *config) { c.provider = p }
}

// WithProbing selects the collision policy, ProbeWrap by default
func WithProbing(p Probing) Option {
	return func(c *config) { c.probing = p }
}

// WithBloomFilter puts a Bloom filter sized for expectedItems keys at
// falsePositiveRate in front of lookups, so most misses skip probing.
func WithBloomFilter(expectedItems uint, falsePositiveRate float64) Option {
	return func(c *config) {
		c.bloomItems, c.bloomRate = expectedItems, falsePositiveRate
	}
}

// WithLogger sets the logger used to report resizes (V(1)) and tail
// appends (V(2))
func WithLogger(l logr.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	c := config{
		provider: FxProvider{},
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	switch {
	case c.provider == nil:
		panic("rhmap: nil HashProvider")
	case c.probing > ProbeTailAppend:
		panic(fmt.Sprintf("rhmap: unknown probing policy %v", c.probing))
	case c.capacity > maxCapacity:
		panic(ErrCapacityOverflow)
	case c.bloomItems > 0 && (c.bloomRate <= 0 || c.bloomRate >= 1):
		panic("rhmap: bloom filter false positive rate must be in (0, 1)")
	}
	return c
}
