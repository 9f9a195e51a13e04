package rhmap

// FxProvider builds Fx hashers, the word-at-a-time multiplicative hash used
// by the rustc compiler. It is fast and good enough for trusted keys but
// offers no protection against crafted collisions; use a keyed provider
// such as HighwayHash or SipHash for untrusted input.
type FxProvider struct{}

func (FxProvider) New() Hasher { return new(fxHasher) }

func (p FxProvider) Clone() HashProvider { return p }
