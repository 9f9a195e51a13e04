//go:build go1.23
// +build go1.23

package rhmap

import (
	"strconv"
	"testing"
)

func TestIterators(t *testing.T) {
	m := New[string, int](WithCapacity(32))
	for i := 0; i < 20; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	t.Run("pairs in slot order", func(t *testing.T) {
		var want []string
		for i := range m.slots {
			if !m.slots[i].isVacant() {
				want = append(want, m.slots[i].key)
			}
		}
		j := 0
		for k, v := range m.Iterator() {
			if k != strconv.Itoa(v) {
				t.Errorf("pair %q -> %d does not belong together", k, v)
			}
			if j >= len(want) || want[j] != k {
				t.Errorf("position %d: got %q", j, k)
			}
			j++
		}
		if j != 20 {
			t.Errorf("expected 20 pairs, got %d", j)
		}
	})

	t.Run("keys", func(t *testing.T) {
		seen := make(map[string]bool)
		for k := range m.Keys() {
			if _, ok := m.Get(k); !ok {
				t.Errorf("key %q is not in the map", k)
			}
			seen[k] = true
		}
		if len(seen) != 20 {
			t.Errorf("expected 20 distinct keys, got %d", len(seen))
		}
	})

	t.Run("break", func(t *testing.T) {
		counter := 0
		for range m.Keys() {
			counter++
			if counter == 3 {
				break
			}
		}
		if counter != 3 {
			t.Errorf("iteration should stop at 3, got %d", counter)
		}
	})
}
