package rhmap

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/minio/highwayhash"
	"github.com/shivakar/metrohash"
	"github.com/twmb/murmur3"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
)

// HashKind names a built-in hash provider
type HashKind int

const (
	FxHash HashKind = iota
	XXH3
	XXHash64
	Murmur3
	Metro
	HighwayHash
	SipHash
	Blake3
)

// SaltLength is the length of the optional salt prefixed to every key by the
// Murmur3 and Metro providers
const SaltLength = 32

var (
	ErrUnknownHash = fmt.Errorf("cannot create a provider of unknown hash kind")
	ErrKeyLength   = fmt.Errorf("invalid hash key length")
)

var hashKindNames = [...]string{
	FxHash:      "fx",
	XXH3:        "xxh3",
	XXHash64:    "xxhash64",
	Murmur3:     "murmur3",
	Metro:       "metro",
	HighwayHash: "highwayhash",
	SipHash:     "siphash",
	Blake3:      "blake3",
}

func (k HashKind) String() string {
	if k < 0 || int(k) >= len(hashKindNames) {
		return fmt.Sprintf("HashKind(%d)", int(k))
	}
	return hashKindNames[k]
}

// ParseHashKind returns the kind with the given name, ignoring case
func ParseHashKind(name string) (HashKind, error) {
	for k, n := range hashKindNames {
		if strings.EqualFold(n, name) {
			return HashKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHash, name)
}

// KeySize returns the key length the kind expects. Unkeyed kinds return 0.
// Salted kinds (Murmur3, Metro) return SaltLength but also accept no key.
func (k HashKind) KeySize() int {
	switch k {
	case Murmur3, Metro:
		return SaltLength
	case HighwayHash, Blake3:
		return 32
	case SipHash:
		return 16
	default:
		return 0
	}
}

func (k HashKind) salted() bool { return k == Murmur3 || k == Metro }

// NewHashProvider creates a provider of kind k. Keyed kinds resist
// collision flooding as long as key stays secret.
func NewHashProvider(k HashKind, key []byte) (HashProvider, error) {
	if k < 0 || int(k) >= len(hashKindNames) {
		return nil, ErrUnknownHash
	}
	if want := k.KeySize(); len(key) != want && !(k.salted() && len(key) == 0) {
		return nil, fmt.Errorf("%w: %s wants %d bytes, got %d", ErrKeyLength, k, want, len(key))
	}
	key = bytes.Clone(key)

	switch k {
	case XXH3:
		return xxh3Provider{}, nil
	case XXHash64:
		return xxhashProvider{}, nil
	case Murmur3:
		return murmur3Provider{salt: key}, nil
	case Metro:
		return metroProvider{salt: key}, nil
	case HighwayHash:
		return highwayProvider{key: key}, nil
	case SipHash:
		return sipProvider{key: key}, nil
	case Blake3:
		return blake3Provider{key: key}, nil
	default:
		return FxProvider{}, nil
	}
}

// RandomKey returns a fresh random key of the size kind k expects, or nil
// for unkeyed kinds
func RandomKey(k HashKind) ([]byte, error) {
	n := k.KeySize()
	if n == 0 {
		return nil, nil
	}
	key := make([]byte, n)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

type xxh3Provider struct{}

func (xxh3Provider) New() Hasher           { return xxh3.New() }
func (p xxh3Provider) Clone() HashProvider { return p }

type xxhashProvider struct{}

func (xxhashProvider) New() Hasher           { return xxhash.New() }
func (p xxhashProvider) Clone() HashProvider { return p }

// murmur3Provider prefixes the salt to the bytes being summed
type murmur3Provider struct {
	salt []byte
}

func (p murmur3Provider) New() Hasher {
	h := murmur3.New64()
	if len(p.salt) > 0 {
		h.Write(p.salt)
	}
	return h
}

func (p murmur3Provider) Clone() HashProvider {
	return murmur3Provider{salt: bytes.Clone(p.salt)}
}

// metroProvider prefixes the salt to the bytes being summed
type metroProvider struct {
	salt []byte
}

func (p metroProvider) New() Hasher {
	h := metrohash.NewMetroHash64()
	if len(p.salt) > 0 {
		h.Write(p.salt)
	}
	return h
}

func (p metroProvider) Clone() HashProvider {
	return metroProvider{salt: bytes.Clone(p.salt)}
}

type highwayProvider struct {
	key []byte
}

func (p highwayProvider) New() Hasher {
	h, err := highwayhash.New64(p.key)
	if err != nil {
		// the key length is checked by NewHashProvider
		panic(err)
	}
	return h
}

func (p highwayProvider) Clone() HashProvider {
	return highwayProvider{key: bytes.Clone(p.key)}
}

type sipProvider struct {
	key []byte
}

func (p sipProvider) New() Hasher { return siphash.New(p.key) }

func (p sipProvider) Clone() HashProvider {
	return sipProvider{key: bytes.Clone(p.key)}
}

type blake3Provider struct {
	key []byte
}

func (p blake3Provider) New() Hasher {
	h, err := blake3.NewKeyed(p.key)
	if err != nil {
		panic(err)
	}
	return blake3Hasher{h}
}

func (p blake3Provider) Clone() HashProvider {
	return blake3Provider{key: bytes.Clone(p.key)}
}

// blake3Hasher folds the first 8 bytes of the blake3 output into a digest
type blake3Hasher struct {
	*blake3.Hasher
}

func (h blake3Hasher) Sum64() uint64 {
	var out [32]byte
	return binary.LittleEndian.Uint64(h.Sum(out[:0]))
}
