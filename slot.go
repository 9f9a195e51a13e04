package rhmap

// slotState tags a slot as vacant or occupied
type slotState uint8

const (
	vacant slotState = iota
	occupied
)

// entry is a key value pair together with its cached digest and the
// distance it sits from its home slot
type entry[K hashable, V any] struct {
	key    K
	value  V
	digest uintptr
	psl    uintptr
}

// slot is a single cell of the backing slice. The entry is only meaningful
// when state is occupied.
type slot[K hashable, V any] struct {
	state slotState
	entry[K, V]
}

func (s *slot[K, V]) isVacant() bool { return s.state == vacant }

// occupy stores e in the slot and returns the previous resident
func (s *slot[K, V]) occupy(e entry[K, V]) (prev entry[K, V]) {
	prev = s.entry
	s.state, s.entry = occupied, e
	return
}

// matches reports whether the slot holds key. The cached digest is compared
// first so that unequal keys rarely reach the key comparison.
func (s *slot[K, V]) matches(digest uintptr, key K) bool {
	return s.state == occupied && s.digest == digest && s.key == key
}
