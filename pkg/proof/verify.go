package proof

import (
	"crypto/subtle"
	"fmt"

	"github.com/signware/merkle-verify-go/pkg/hashing"
)

// Config describes a Verifier. MaxDepth must be positive; it caps the number
// of fold steps accepted from a proof source and therefore worst-case
// execution time on hostile input.
type Config struct {
	// Hasher is the hash primitive used for leaf commitments and folding.
	Hasher hashing.Hasher

	// MaxDepth is the maximum accepted proof path length.
	MaxDepth int

	// LeafDomainTag, when set, is prepended to the leaf payload before the
	// leaf commitment is hashed. Protocols without domain separation leave
	// it nil.
	LeafDomainTag *byte

	// NodeDomainTag, when set, is prepended to every folded node pair.
	NodeDomainTag *byte
}

// Verifier checks inclusion proofs against a trusted root. It holds no
// mutable state: every Verify call is independent and safely re-entrant.
type Verifier struct {
	hasher   hashing.Hasher
	maxDepth int
	leafTag  *byte
	nodeTag  *byte
}

// NewVerifier validates cfg and returns a Verifier. Configuration mistakes
// are integration bugs and are returned as errors, never encoded in a Result.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	if cfg.Hasher.Size() <= 0 {
		return nil, fmt.Errorf("hasher %q reports non-positive digest size %d", cfg.Hasher.Name(), cfg.Hasher.Size())
	}
	if cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("max depth must be positive, got %d", cfg.MaxDepth)
	}
	return &Verifier{
		hasher:   cfg.Hasher,
		maxDepth: cfg.MaxDepth,
		leafTag:  cfg.LeafDomainTag,
		nodeTag:  cfg.NodeDomainTag,
	}, nil
}

// MaxDepth returns the configured maximum proof path length.
func (v *Verifier) MaxDepth() int {
	return v.maxDepth
}

// Width returns the digest width every hash value must have.
func (v *Verifier) Width() int {
	return v.hasher.Size()
}

// Verify recomputes the root committed to by leaf and path and compares it
// against the trusted root. It never mutates its inputs and never hashes
// anything before the whole path has passed structural validation.
//
// An empty path is valid and means the leaf claims to equal the root
// directly: the verdict reduces to hash(leaf) == root. A zero-length leaf is
// valid input to the hash primitive, not an error.
func (v *Verifier) Verify(leaf []byte, path Path, root []byte) Result {
	width := v.hasher.Size()

	if len(path) > v.maxDepth {
		return Rejected(ReasonMalformedPath)
	}
	if len(root) != width {
		return Rejected(ReasonMalformedPath)
	}
	for _, step := range path {
		if len(step.Sibling) != width {
			return Rejected(ReasonMalformedPath)
		}
		if step.Direction != DirectionLeft && step.Direction != DirectionRight {
			return Rejected(ReasonMalformedPath)
		}
	}

	running := v.hashLeaf(leaf)
	for _, step := range path {
		running = v.fold(running, step)
	}

	// Constant-time comparison: the attacker controls the path and can
	// observe response latency, so the compare must not reveal the index of
	// the first differing byte.
	if subtle.ConstantTimeCompare(running, root) == 1 {
		return Accepted()
	}
	return Rejected(ReasonHashMismatch)
}

// hashLeaf computes the leaf commitment, applying the leaf domain tag when
// one is configured.
func (v *Verifier) hashLeaf(leaf []byte) []byte {
	if v.leafTag == nil {
		return v.hasher.Sum(leaf)
	}
	buf := make([]byte, 0, 1+len(leaf))
	buf = append(buf, *v.leafTag)
	buf = append(buf, leaf...)
	return v.hasher.Sum(buf)
}

// fold combines the running value with one proof step. DirectionRight
// appends the sibling after the running value, DirectionLeft prepends it.
func (v *Verifier) fold(running []byte, step Step) []byte {
	buf := make([]byte, 0, 1+len(running)+len(step.Sibling))
	if v.nodeTag != nil {
		buf = append(buf, *v.nodeTag)
	}
	if step.Direction == DirectionRight {
		buf = append(buf, running...)
		buf = append(buf, step.Sibling...)
	} else {
		buf = append(buf, step.Sibling...)
		buf = append(buf, running...)
	}
	return v.hasher.Sum(buf)
}
