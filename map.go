package rhmap

import (
	"encoding/json"
	"unsafe"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-logr/logr"
	"golang.org/x/exp/constraints"
)

type (
	hashable interface {
		constraints.Integer | constraints.Float | constraints.Complex | ~string | uintptr | ~unsafe.Pointer
	}

	// Map is an open addressing hashmap that resolves collisions by probe
	// sequence length, evicting residents that sit closer to their home slot
	// than the incoming entry.
	// Maps are created with New and are not safe for concurrent use.
	Map[K hashable, V any] struct {
		slots    []slot[K, V]
		buckets  uintptr // home slots are digest % buckets
		numItems uintptr
		provider HashProvider
		probing  Probing
		filter   *bloom.BloomFilter
		encode   keyEncoder[K]
		logger   logr.Logger
	}

	// Stats describes how entries are spread over the slots
	Stats struct {
		Len     uintptr
		Cap     uintptr
		Buckets uintptr
		// Spilled counts slots appended past the nominal end by ProbeTailAppend
		Spilled uintptr
		MaxPSL  uintptr
		MeanPSL float64
		// PSLHistogram[d] is the number of entries sitting d slots from home
		PSLHistogram []uintptr
	}
)

// New returns an empty Map. Without options it has capacity 0, uses the Fx
// hash provider and allocates on the first Set.
func New[K hashable, V any](opts ...Option) *Map[K, V] {
	cfg := newConfig(opts)
	m := &Map[K, V]{
		provider: cfg.provider,
		probing:  cfg.probing,
		encode:   newKeyEncoder[K](),
		logger:   cfg.logger,
	}
	if cfg.bloomItems > 0 {
		m.filter = bloom.NewWithEstimates(cfg.bloomItems, cfg.bloomRate)
	}
	if cfg.capacity > 0 {
		m.allocate(cfg.capacity)
	}
	return m
}

// Set inserts the key value pair, or updates the value if the key is
// already present. It reports whether an existing value was replaced.
func (m *Map[K, V]) Set(key K, value V) (replaced bool) {
	if resizeNeeded(m.Cap(), m.numItems) {
		m.resize()
	}

	b := m.encode(&key)
	if m.filter != nil {
		m.filter.Add(b)
	}
	if m.insertEntry(entry[K, V]{key: key, value: value, digest: hashBytes(m.provider, b)}) {
		m.numItems++
		return false
	}
	return true
}

// Get retrieves an element from the map
// returns `false` if element is absent
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if m.numItems == 0 {
		return
	}
	b := m.encode(&key)
	if m.filter != nil && !m.filter.Test(b) {
		return
	}
	if i, found := m.find(hashBytes(m.provider, b), key); found {
		return m.slots[i].value, true
	}
	return
}

// Len returns the number of key-value pairs within the map
func (m *Map[K, V]) Len() uintptr {
	return m.numItems
}

// Cap returns the number of slots, vacant or not
func (m *Map[K, V]) Cap() uintptr {
	return uintptr(len(m.slots))
}

// Fillrate returns the fill rate of the map as an percentage integer
func (m *Map[K, V]) Fillrate() uintptr {
	if len(m.slots) == 0 {
		return 0
	}
	return (m.numItems * 100) / uintptr(len(m.slots))
}

// MaxPSL returns the longest distance any entry sits from its home slot.
// A lookup never probes more than MaxPSL+1 slots.
func (m *Map[K, V]) MaxPSL() (longest uintptr) {
	for i := range m.slots {
		if !m.slots[i].isVacant() && m.slots[i].psl > longest {
			longest = m.slots[i].psl
		}
	}
	return
}

// Stats walks the slots and summarizes entry placement
func (m *Map[K, V]) Stats() Stats {
	st := Stats{
		Len:     m.numItems,
		Cap:     m.Cap(),
		Buckets: m.buckets,
		Spilled: m.Cap() - m.buckets,
	}
	var total uintptr
	for i := range m.slots {
		s := &m.slots[i]
		if s.isVacant() {
			continue
		}
		for uintptr(len(st.PSLHistogram)) <= s.psl {
			st.PSLHistogram = append(st.PSLHistogram, 0)
		}
		st.PSLHistogram[s.psl]++
		total += s.psl
		if s.psl > st.MaxPSL {
			st.MaxPSL = s.psl
		}
	}
	if m.numItems > 0 {
		st.MeanPSL = float64(total) / float64(m.numItems)
	}
	return st
}

// Provider returns the hash provider currently in use
func (m *Map[K, V]) Provider() HashProvider {
	return m.provider
}

// Probing returns the collision policy of the map
func (m *Map[K, V]) Probing() Probing {
	return m.probing
}

// ForEach iterates over key-value pairs in slot order and executes the lambda provided for each such pair
// lambda must return `true` to continue iteration and `false` to break iteration
func (m *Map[K, V]) ForEach(lambda func(K, V) bool) {
	for i := range m.slots {
		if m.slots[i].isVacant() {
			continue
		}
		if !lambda(m.slots[i].key, m.slots[i].value) {
			return
		}
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	gomap := make(map[K]V, m.numItems)
	m.ForEach(func(k K, v V) bool {
		gomap[k] = v
		return true
	})
	return json.Marshal(gomap)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Map[K, V]) UnmarshalJSON(i []byte) error {
	gomap := make(map[K]V)
	err := json.Unmarshal(i, &gomap)
	if err != nil {
		return err
	}
	if m.encode == nil {
		*m = *New[K, V]()
	}
	for k, v := range gomap {
		m.Set(k, v)
	}
	return nil
}

// allocate replaces the slots with capacity vacant ones
func (m *Map[K, V]) allocate(capacity uintptr) {
	m.slots = make([]slot[K, V], capacity)
	m.buckets = capacity
	m.numItems = 0
}

// resize moves every entry into a table twice the size, or initialSize for
// an unallocated map. Digests are reused; only the home slots change.
func (m *Map[K, V]) resize() {
	target := nextCapacity(m.Cap())
	old := m.slots

	m.provider = m.provider.Clone()
	m.allocate(target)
	for i := range old {
		if old[i].isVacant() {
			continue
		}
		e := old[i].entry
		e.psl = 0
		if m.insertEntry(e) {
			m.numItems++
		}
	}
	m.logger.V(1).Info("resized", "from", len(old), "to", target, "items", m.numItems, "probing", m.probing)
}

// insertEntry places e and reports whether it was a new key. An equal key
// has its value overwritten instead.
func (m *Map[K, V]) insertEntry(e entry[K, V]) bool {
	if m.probing == ProbeTailAppend {
		return m.insertTail(e)
	}
	return m.insertWrap(e)
}

// insertWrap is Robin Hood insertion with wraparound. The map never fills
// up completely so a vacant slot is always reached.
func (m *Map[K, V]) insertWrap(e entry[K, V]) bool {
	capacity := uintptr(len(m.slots))
	// carrying is set once e is an evicted resident rather than the new entry
	carrying := false
	for i := e.digest % m.buckets; ; {
		s := &m.slots[i]
		switch {
		case s.isVacant():
			s.occupy(e)
			return true
		case !carrying && s.matches(e.digest, e.key):
			s.value = e.value
			return false
		case e.psl > s.psl:
			e = s.occupy(e)
			carrying = true
		}
		e.psl++
		if i++; i == capacity {
			i = 0
		}
	}
}

// insertTail probes forward without wrapping. An evicted resident starts over
// from its own home slot, and an entry that reaches the end of the slots is
// appended past it.
func (m *Map[K, V]) insertTail(e entry[K, V]) bool {
	carrying := false
	for i := e.digest % m.buckets; i < uintptr(len(m.slots)); {
		s := &m.slots[i]
		switch {
		case s.isVacant():
			s.occupy(e)
			return true
		case !carrying && s.matches(e.digest, e.key):
			s.value = e.value
			return false
		case e.psl > s.psl:
			e = s.occupy(e)
			e.psl, carrying = 0, true
			i = e.digest % m.buckets
			continue
		}
		e.psl++
		i++
	}

	m.logger.V(2).Info("probe reached the end of the slots, appending", "psl", e.psl, "capacity", len(m.slots))
	m.slots = append(m.slots, slot[K, V]{state: occupied, entry: e})
	return true
}

// find returns the slot index holding key. The probe stops at a vacant slot
// or at a resident closer to its home than the current distance, since under
// PSL ordering the key cannot sit further along.
func (m *Map[K, V]) find(digest uintptr, key K) (uintptr, bool) {
	capacity := uintptr(len(m.slots))
	i := digest % m.buckets
	for d := uintptr(0); d < capacity; d++ {
		s := &m.slots[i]
		switch {
		case s.isVacant():
			return 0, false
		case s.matches(digest, key):
			return i, true
		case s.psl < d:
			return 0, false
		}
		if i++; i == capacity {
			if m.probing == ProbeTailAppend {
				return 0, false
			}
			i = 0
		}
	}
	return 0, false
}
