//go:build !(386 || arm || mips || mipsle)

package rhmap

import (
	"encoding/binary"
	"math/bits"
)

const fxSeed uint64 = 0x51_7c_c1_b7_27_22_0a_95

// fxHasher implements the Fx hash for 64 bit systems
type fxHasher struct {
	hash uint64
}

func (f *fxHasher) add(word uint64) {
	f.hash = (bits.RotateLeft64(f.hash, 5) ^ word) * fxSeed
}

func (f *fxHasher) Write(b []byte) (int, error) {
	n := len(b)
	for len(b) >= 8 {
		f.add(binary.LittleEndian.Uint64(b))
		b = b[8:]
	}
	if len(b) >= 4 {
		f.add(uint64(binary.LittleEndian.Uint32(b)))
		b = b[4:]
	}
	if len(b) >= 2 {
		f.add(uint64(binary.LittleEndian.Uint16(b)))
		b = b[2:]
	}
	if len(b) >= 1 {
		f.add(uint64(b[0]))
	}
	return n, nil
}

func (f *fxHasher) Sum64() uint64 { return f.hash }
