//go:build go1.23
// +build go1.23

package rhmap

import "iter"

// Iterator yields every key-value pair in slot order
func (m *Map[K, V]) Iterator() iter.Seq2[K, V] {
	return func(yield func(key K, value V) bool) {
		m.ForEach(yield)
	}
}

func (m *Map[K, _]) Keys() iter.Seq[K] {
	return func(yield func(key K) bool) {
		for i := range m.slots {
			if !m.slots[i].isVacant() && !yield(m.slots[i].key) {
				return
			}
		}
	}
}
