package rhmap

import (
	"io"
	"reflect"
	"unsafe"

	"github.com/alecthomas/unsafeslice"
)

// Hasher is a stateful hash function. Key bytes are written to it and the
// digest is read back with Sum64. Every hash.Hash64 is a Hasher.
type Hasher interface {
	io.Writer
	Sum64() uint64
}

// HashProvider builds hashers for a map. New must return a fresh Hasher on
// every call since the map builds one per digest and never reuses it.
// Clone is used when the map moves its entries into a larger table.
type HashProvider interface {
	New() Hasher
	Clone() HashProvider
}

// keyEncoder returns the bytes fed to the hasher for a key
type keyEncoder[K hashable] func(key *K) []byte

// hashBytes builds a fresh hasher and digests b with it
func hashBytes(p HashProvider, b []byte) uintptr {
	h := p.New()
	// Hasher writes never fail
	_, _ = h.Write(b)
	return uintptr(h.Sum64())
}

// newKeyEncoder picks the byte representation for the key type.
// Strings are hashed by content without copying, fixed width kinds by their
// in-memory representation. Floating point zeros are normalized so that
// -0 and +0, which compare equal, also hash equal.
func newKeyEncoder[K hashable]() keyEncoder[K] {
	switch reflect.TypeOf(*new(K)).Kind() {
	case reflect.String:
		return func(key *K) []byte {
			return unsafeslice.ByteSliceFromString(*(*string)(unsafe.Pointer(key)))
		}
	case reflect.Float32:
		return func(key *K) []byte {
			f := *(*float32)(unsafe.Pointer(key))
			if f == 0 {
				f = 0
			}
			return unsafe.Slice((*byte)(unsafe.Pointer(&f)), 4)
		}
	case reflect.Float64:
		return func(key *K) []byte {
			f := *(*float64)(unsafe.Pointer(key))
			if f == 0 {
				f = 0
			}
			return unsafe.Slice((*byte)(unsafe.Pointer(&f)), 8)
		}
	case reflect.Complex64:
		return func(key *K) []byte {
			c := *(*[2]float32)(unsafe.Pointer(key))
			for i := range c {
				if c[i] == 0 {
					c[i] = 0
				}
			}
			return unsafe.Slice((*byte)(unsafe.Pointer(&c)), 8)
		}
	case reflect.Complex128:
		return func(key *K) []byte {
			c := *(*[2]float64)(unsafe.Pointer(key))
			for i := range c {
				if c[i] == 0 {
					c[i] = 0
				}
			}
			return unsafe.Slice((*byte)(unsafe.Pointer(&c)), 16)
		}
	default:
		// integers, uintptr and pointers
		return func(key *K) []byte {
			return unsafe.Slice((*byte)(unsafe.Pointer(key)), unsafe.Sizeof(*key))
		}
	}
}
