package hashing

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// Hasher is the hash primitive used for leaf commitments and node folding.
// Implementations must be deterministic, accept input of any length and
// produce digests of exactly Size() bytes.
type Hasher interface {
	// Sum returns the digest of data. It must not retain or modify data.
	Sum(data []byte) []byte

	// Size returns the fixed digest width in bytes.
	Size() int

	// Name returns the registry name of the primitive.
	Name() string
}

// Algorithm names accepted by New.
const (
	AlgoKeccak256 = "keccak256"
	AlgoSHA3256   = "sha3-256"
	AlgoSHA256    = "sha256"
	AlgoMiMCBN254 = "mimc-bn254"
)

type constructor func() Hasher

var registry = map[string]constructor{
	AlgoKeccak256: func() Hasher { return keccak256Hasher{} },
	AlgoSHA3256:   func() Hasher { return sha3Hasher{} },
	AlgoSHA256:    func() Hasher { return sha256Hasher{} },
	AlgoMiMCBN254: func() Hasher { return mimcHasher{} },
}

// New returns the Hasher registered under name.
func New(name string) (Hasher, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q (supported: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns all registered algorithm names in sorted order, for CLI help.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// keccak256Hasher is the legacy Keccak-256 used by Ethereum.
type keccak256Hasher struct{}

func (keccak256Hasher) Sum(data []byte) []byte { return crypto.Keccak256(data) }
func (keccak256Hasher) Size() int              { return 32 }
func (keccak256Hasher) Name() string           { return AlgoKeccak256 }

// sha3Hasher is the NIST-finalized SHA3-256 (different padding than keccak256).
type sha3Hasher struct{}

func (sha3Hasher) Sum(data []byte) []byte {
	digest := sha3.Sum256(data)
	return digest[:]
}
func (sha3Hasher) Size() int    { return 32 }
func (sha3Hasher) Name() string { return AlgoSHA3256 }

type sha256Hasher struct{}

func (sha256Hasher) Sum(data []byte) []byte {
	digest := sha256.Sum256(data)
	return digest[:]
}
func (sha256Hasher) Size() int    { return 32 }
func (sha256Hasher) Name() string { return AlgoSHA256 }

// mimcHasher hashes arbitrary bytes with MiMC over the BN254 scalar field.
// MiMC consumes 32-byte blocks that must encode field elements, so the input
// is split into 31-byte chunks and left-padded to 32; every chunk is then
// guaranteed smaller than the field modulus.
type mimcHasher struct{}

const mimcChunkSize = 31

func (mimcHasher) Sum(data []byte) []byte {
	h := mimc.NewMiMC()
	var block [32]byte
	for offset := 0; offset < len(data); offset += mimcChunkSize {
		end := offset + mimcChunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]
		for i := range block {
			block[i] = 0
		}
		copy(block[32-len(chunk):], chunk)
		// cannot fail: a left-padded 31-byte chunk is always a canonical element
		_, _ = h.Write(block[:])
	}
	return h.Sum(nil)
}
func (mimcHasher) Size() int    { return 32 }
func (mimcHasher) Name() string { return AlgoMiMCBN254 }
