package merkletree

import (
	"fmt"

	"github.com/signware/merkle-verify-go/pkg/hashing"
	"github.com/signware/merkle-verify-go/pkg/proof"
)

// Config describes how a tree commits to its leaves. The domain tags must
// match the verifier configuration the resulting proofs are checked against.
type Config struct {
	Hasher        hashing.Hasher
	LeafDomainTag *byte
	NodeDomainTag *byte
}

// Tree is a binary merkle tree over opaque leaf payloads, used to construct
// synthetic roots and direction-flagged proofs for tests and tooling. The
// verification core never depends on it.
type Tree struct {
	// Leaves contains the leaf commitments in payload order.
	Leaves [][]byte

	// Root is the merkle root hash.
	Root []byte

	// levels stores all tree levels for proof generation.
	// levels[0] = leaves, levels[len-1] = root
	levels [][][]byte

	cfg Config
}

// Build creates a binary merkle tree from the given leaf payloads. If there
// is an odd number of nodes at any level, the last node is duplicated.
func Build(cfg Config, payloads [][]byte) (*Tree, error) {
	if cfg.Hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("cannot build merkle tree from empty payload list")
	}

	leaves := make([][]byte, len(payloads))
	for i, payload := range payloads {
		leaves[i] = hashLeaf(cfg, payload)
	}

	levels := make([][][]byte, 0)
	levels = append(levels, leaves)

	currentLevel := leaves
	for len(currentLevel) > 1 {
		nextLevel := make([][]byte, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			left := currentLevel[i]
			right := left
			if i+1 < len(currentLevel) {
				right = currentLevel[i+1]
			}
			nextLevel = append(nextLevel, hashPair(cfg, left, right))
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	if len(currentLevel) != 1 {
		return nil, fmt.Errorf("merkle tree construction failed: final level has %d nodes instead of 1", len(currentLevel))
	}

	return &Tree{
		Leaves: leaves,
		Root:   currentLevel[0],
		levels: levels,
		cfg:    cfg,
	}, nil
}

// Proof returns the inclusion proof for the leaf at the given index, ordered
// from the leaf's immediate sibling up to the step adjacent to the root.
// A node at an even index is the left child, so its sibling folds in on the
// right; odd indices fold their sibling in on the left.
func (t *Tree) Proof(leafIndex int) (proof.Path, error) {
	if leafIndex < 0 || leafIndex >= len(t.Leaves) {
		return nil, fmt.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(t.Leaves))
	}

	path := make(proof.Path, 0, len(t.levels)-1)
	index := leafIndex

	for level := 0; level < len(t.levels)-1; level++ {
		currentLevel := t.levels[level]

		var siblingIndex int
		var direction proof.Direction
		if index%2 == 0 {
			siblingIndex = index + 1
			direction = proof.DirectionRight
		} else {
			siblingIndex = index - 1
			direction = proof.DirectionLeft
		}

		// Last node of an odd-sized level pairs with itself.
		if siblingIndex >= len(currentLevel) {
			siblingIndex = index
		}

		path = append(path, proof.Step{
			Sibling:   currentLevel[siblingIndex],
			Direction: direction,
		})

		index = index / 2
	}

	return path, nil
}

// Depth returns the number of fold steps in every proof this tree produces.
func (t *Tree) Depth() int {
	return len(t.levels) - 1
}

func hashLeaf(cfg Config, payload []byte) []byte {
	if cfg.LeafDomainTag == nil {
		return cfg.Hasher.Sum(payload)
	}
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, *cfg.LeafDomainTag)
	buf = append(buf, payload...)
	return cfg.Hasher.Sum(buf)
}

func hashPair(cfg Config, left, right []byte) []byte {
	buf := make([]byte, 0, 1+len(left)+len(right))
	if cfg.NodeDomainTag != nil {
		buf = append(buf, *cfg.NodeDomainTag)
	}
	buf = append(buf, left...)
	buf = append(buf, right...)
	return cfg.Hasher.Sum(buf)
}
