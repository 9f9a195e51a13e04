package rhmap

import (
	"encoding/binary"
	"testing"
)

// identityProvider digests an 8 byte key as the integer it encodes, so tests
// can choose home slots directly
type identityProvider struct{}

func (identityProvider) New() Hasher           { return new(identityHasher) }
func (p identityProvider) Clone() HashProvider { return p }

type identityHasher struct {
	buf []byte
}

func (h *identityHasher) Write(b []byte) (int, error) {
	h.buf = append(h.buf, b...)
	return len(b), nil
}

func (h *identityHasher) Sum64() uint64 {
	var word [8]byte
	copy(word[:], h.buf)
	return binary.NativeEndian.Uint64(word[:])
}

// constProvider gives every key the same digest
type constProvider uint64

func (p constProvider) New() Hasher         { return constHasher(p) }
func (p constProvider) Clone() HashProvider { return p }

type constHasher uint64

func (constHasher) Write(b []byte) (int, error) { return len(b), nil }
func (h constHasher) Sum64() uint64             { return uint64(h) }

// scan looks key up by visiting every slot, ignoring probing entirely
func scan[K hashable, V any](m *Map[K, V], key K) (value V, ok bool) {
	for i := range m.slots {
		if !m.slots[i].isVacant() && m.slots[i].key == key {
			return m.slots[i].value, true
		}
	}
	return
}

// checkInvariants verifies the item count, the cached psl of every entry and
// that every slot between an entry and its home holds a resident at least as
// far from its own home
func checkInvariants[K hashable, V any](t *testing.T, m *Map[K, V]) {
	t.Helper()
	capacity := uintptr(len(m.slots))
	seen := make(map[K]bool)
	var count uintptr
	for i := range m.slots {
		s := &m.slots[i]
		if s.isVacant() {
			continue
		}
		count++
		if seen[s.key] {
			t.Errorf("key %v is stored twice.", s.key)
		}
		seen[s.key] = true

		home := s.digest % m.buckets
		var dist uintptr
		if uintptr(i) >= home {
			dist = uintptr(i) - home
		} else if m.probing == ProbeWrap {
			dist = uintptr(i) + capacity - home
		} else {
			t.Errorf("slot %d sits before its home %d without wraparound.", i, home)
			continue
		}
		if s.psl != dist {
			t.Errorf("slot %d: psl %d but sits %d from home %d.", i, s.psl, dist, home)
		}
		for d := uintptr(0); d < dist; d++ {
			j := (home + d) % capacity
			if m.slots[j].isVacant() || m.slots[j].psl < d {
				t.Errorf("slot %d: probe from home %d passes slot %d which would end a lookup.", i, home, j)
				break
			}
		}
	}
	if count != m.numItems {
		t.Errorf("map counts %d items but holds %d.", m.numItems, count)
	}
	if m.probing == ProbeWrap && capacity > 0 && count > maxItems(capacity) {
		t.Errorf("%d items in %d slots exceeds the load factor.", count, capacity)
	}
}
