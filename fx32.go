//go:build 386 || arm || mips || mipsle

package rhmap

import (
	"encoding/binary"
	"math/bits"
)

const fxSeed uint32 = 0x9e_37_79_b9

// fxHasher implements the Fx hash for 32 bit systems
type fxHasher struct {
	hash uint32
}

func (f *fxHasher) add(word uint32) {
	f.hash = (bits.RotateLeft32(f.hash, 5) ^ word) * fxSeed
}

func (f *fxHasher) Write(b []byte) (int, error) {
	n := len(b)
	for len(b) >= 4 {
		f.add(binary.LittleEndian.Uint32(b))
		b = b[4:]
	}
	if len(b) >= 2 {
		f.add(uint32(binary.LittleEndian.Uint16(b)))
		b = b[2:]
	}
	if len(b) >= 1 {
		f.add(uint32(b[0]))
	}
	return n, nil
}

func (f *fxHasher) Sum64() uint64 { return uint64(f.hash) }
