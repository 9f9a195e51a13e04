package rhmap

import (
	"fmt"
	"math"
)

const (
	// initialSize is the capacity of a zero allocated map on its first insert
	initialSize = 4

	// maxFillRate is the maximum fill rate in percent before a resize will happen
	maxFillRate = 75

	// maxCapacity is the largest slot count that can still be indexed
	maxCapacity = uintptr(math.MaxInt)
)

// ErrCapacityOverflow is the panic value raised when growing the map would
// exceed the addressable index range.
var ErrCapacityOverflow = fmt.Errorf("rhmap: capacity overflow")

// resizeNeeded reports whether adding one more item to a map of the given
// capacity holding count items would push it past maxFillRate
func resizeNeeded(capacity, count uintptr) bool {
	return capacity == 0 || count >= maxItems(capacity)
}

// maxItems is the number of items a map of the given capacity may hold
func maxItems(capacity uintptr) uintptr {
	if capacity > maxCapacity/100 {
		return capacity / 100 * maxFillRate
	}
	return capacity * maxFillRate / 100
}

// nextCapacity returns the capacity to grow to from the current one
func nextCapacity(capacity uintptr) uintptr {
	if capacity == 0 {
		return initialSize
	}
	if capacity > maxCapacity>>1 {
		panic(ErrCapacityOverflow)
	}
	return capacity << 1
}
