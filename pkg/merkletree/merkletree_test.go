package merkletree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signware/merkle-verify-go/pkg/hashing"
	"github.com/signware/merkle-verify-go/pkg/proof"
)

// testPayloads creates n distinct leaf payloads
func testPayloads(n int) [][]byte {
	payloads := make([][]byte, n)
	for i := 0; i < n; i++ {
		payloads[i] = []byte(fmt.Sprintf("payload-%d", i))
	}
	return payloads
}

func testHasher(t *testing.T) hashing.Hasher {
	t.Helper()
	hasher, err := hashing.New(hashing.AlgoKeccak256)
	require.NoError(t, err)
	return hasher
}

// TestBuildTree builds trees of various sizes and checks that every leaf's
// proof verifies against the tree root.
func TestBuildTree(t *testing.T) {
	hasher := testHasher(t)
	verifier, err := proof.NewVerifier(proof.Config{Hasher: hasher, MaxDepth: 8})
	require.NoError(t, err)

	testCases := []struct {
		name      string
		numLeaves int
	}{
		{"Single leaf", 1},
		{"Two leaves", 2},
		{"Three leaves", 3},
		{"Four leaves (power of 2)", 4},
		{"Seven leaves", 7},
		{"Eight leaves (power of 2)", 8},
		{"Fifteen leaves", 15},
		{"Sixteen leaves (power of 2)", 16},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payloads := testPayloads(tc.numLeaves)
			tree, err := Build(Config{Hasher: hasher}, payloads)
			require.NoError(t, err)
			require.NotNil(t, tree)

			require.Equal(t, tc.numLeaves, len(tree.Leaves))
			require.Len(t, tree.Root, hasher.Size())

			for i := 0; i < tc.numLeaves; i++ {
				path, err := tree.Proof(i)
				require.NoError(t, err)
				require.Equal(t, tree.Depth(), len(path))

				result := verifier.Verify(payloads[i], path, tree.Root)
				require.True(t, result.Verified, "proof for leaf %d should verify", i)
			}
		})
	}
}

// TestBuildTreeEmpty checks that building from no payloads fails.
func TestBuildTreeEmpty(t *testing.T) {
	tree, err := Build(Config{Hasher: testHasher(t)}, nil)
	require.Error(t, err)
	require.Nil(t, tree)
	require.Contains(t, err.Error(), "empty")
}

// TestBuildTreeNilHasher checks the hasher requirement.
func TestBuildTreeNilHasher(t *testing.T) {
	tree, err := Build(Config{}, testPayloads(2))
	require.Error(t, err)
	require.Nil(t, tree)
}

// TestProofInvalidIndex checks proof generation with out-of-range indices.
func TestProofInvalidIndex(t *testing.T) {
	tree, err := Build(Config{Hasher: testHasher(t)}, testPayloads(4))
	require.NoError(t, err)

	t.Run("Negative index", func(t *testing.T) {
		path, err := tree.Proof(-1)
		require.Error(t, err)
		require.Nil(t, path)
	})

	t.Run("Index out of bounds", func(t *testing.T) {
		path, err := tree.Proof(10)
		require.Error(t, err)
		require.Nil(t, path)
	})
}

// TestTreeDeterminism checks that the same payloads always produce the same
// root and leaves.
func TestTreeDeterminism(t *testing.T) {
	hasher := testHasher(t)
	payloads := testPayloads(10)

	tree1, err := Build(Config{Hasher: hasher}, payloads)
	require.NoError(t, err)
	tree2, err := Build(Config{Hasher: hasher}, payloads)
	require.NoError(t, err)

	require.Equal(t, tree1.Root, tree2.Root)
	require.Equal(t, tree1.Leaves, tree2.Leaves)
}

// TestTamperedPayloadFails checks that a valid proof does not verify for a
// different payload.
func TestTamperedPayloadFails(t *testing.T) {
	hasher := testHasher(t)
	verifier, err := proof.NewVerifier(proof.Config{Hasher: hasher, MaxDepth: 8})
	require.NoError(t, err)

	payloads := testPayloads(4)
	tree, err := Build(Config{Hasher: hasher}, payloads)
	require.NoError(t, err)

	path, err := tree.Proof(0)
	require.NoError(t, err)

	result := verifier.Verify([]byte("payload-1"), path, tree.Root)
	require.False(t, result.Verified)
	require.Equal(t, proof.ReasonHashMismatch, result.Reason)
}

// TestTreeWithDomainTags checks that tagged trees verify only against
// identically tagged verifiers.
func TestTreeWithDomainTags(t *testing.T) {
	hasher := testHasher(t)
	leafTag := byte(0x00)
	nodeTag := byte(0x01)

	payloads := testPayloads(5)
	tree, err := Build(Config{
		Hasher:        hasher,
		LeafDomainTag: &leafTag,
		NodeDomainTag: &nodeTag,
	}, payloads)
	require.NoError(t, err)

	tagged, err := proof.NewVerifier(proof.Config{
		Hasher:        hasher,
		MaxDepth:      8,
		LeafDomainTag: &leafTag,
		NodeDomainTag: &nodeTag,
	})
	require.NoError(t, err)

	plain, err := proof.NewVerifier(proof.Config{Hasher: hasher, MaxDepth: 8})
	require.NoError(t, err)

	for i := range payloads {
		path, err := tree.Proof(i)
		require.NoError(t, err)

		require.True(t, tagged.Verify(payloads[i], path, tree.Root).Verified)
		require.False(t, plain.Verify(payloads[i], path, tree.Root).Verified)
	}
}

// TestTreeDepth checks that proof depth grows logarithmically.
func TestTreeDepth(t *testing.T) {
	hasher := testHasher(t)

	testCases := []struct {
		numLeaves int
		depth     int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{8, 3},
		{9, 4},
		{16, 4},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d_leaves", tc.numLeaves), func(t *testing.T) {
			tree, err := Build(Config{Hasher: hasher}, testPayloads(tc.numLeaves))
			require.NoError(t, err)
			require.Equal(t, tc.depth, tree.Depth())
		})
	}
}

// TestOddLevelDuplication checks the last node of an odd level pairs with
// itself: a three-leaf tree's third proof folds its own leaf hash first.
func TestOddLevelDuplication(t *testing.T) {
	hasher := testHasher(t)
	payloads := testPayloads(3)

	tree, err := Build(Config{Hasher: hasher}, payloads)
	require.NoError(t, err)

	path, err := tree.Proof(2)
	require.NoError(t, err)
	require.Len(t, path, 2)

	// leaf 2 sits alone at the bottom level, so its first sibling is its own hash
	require.Equal(t, tree.Leaves[2], path[0].Sibling)
	require.Equal(t, proof.DirectionRight, path[0].Direction)
}
