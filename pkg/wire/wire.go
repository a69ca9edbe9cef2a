// Package wire decodes proof bundles on behalf of the request-handling
// collaborator. Everything here is transport glue: the verification core in
// pkg/proof never sees wire encodings.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/signware/merkle-verify-go/pkg/proof"
)

// ErrDeclaredLength is returned when a bundle's explicit path_length field
// disagrees with the number of steps present. Callers map it to a
// length-mismatch rejection rather than a transport error.
var ErrDeclaredLength = errors.New("declared path length disagrees with steps present")

// ProofBundle is the JSON wire form of an inclusion proof request. Hash
// values are hex encoded with a 0x prefix. The trusted root is deliberately
// absent: it is configuration, not request input.
type ProofBundle struct {
	// Leaf is the hex-encoded leaf payload whose inclusion is claimed.
	Leaf string `json:"leaf"`

	// Steps is the proof path, ordered from the leaf's sibling upward.
	Steps []BundleStep `json:"steps"`

	// PathLength optionally declares the expected number of steps.
	PathLength *int `json:"path_length,omitempty"`
}

// BundleStep is one wire-encoded proof step.
type BundleStep struct {
	Sibling  string `json:"sibling"`
	Position string `json:"position"` // "left" or "right"
}

// DecodedProof is the collaborator-side result of decoding a bundle, ready
// to hand to the verifier.
type DecodedProof struct {
	Leaf []byte
	Path proof.Path
}

// DecodeBundle parses raw JSON into a DecodedProof. Structural wire problems
// (bad JSON, bad hex, unknown positions) come back as wrapped errors; a
// declared-length disagreement comes back wrapping ErrDeclaredLength so the
// handler can surface it as a distinct rejection.
func DecodeBundle(raw []byte) (*DecodedProof, error) {
	var bundle ProofBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, errors.Wrapf(err, "failed to parse proof bundle")
	}
	return decode(&bundle)
}

func decode(bundle *ProofBundle) (*DecodedProof, error) {
	if bundle.PathLength != nil && *bundle.PathLength != len(bundle.Steps) {
		return nil, errors.Wrapf(ErrDeclaredLength, "declared %d, present %d", *bundle.PathLength, len(bundle.Steps))
	}

	leaf, err := decodeHex(bundle.Leaf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode leaf")
	}

	path := make(proof.Path, 0, len(bundle.Steps))
	for i, step := range bundle.Steps {
		sibling, err := decodeHex(step.Sibling)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode sibling at step %d", i)
		}
		direction, err := parsePosition(step.Position)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid position at step %d", i)
		}
		path = append(path, proof.Step{Sibling: sibling, Direction: direction})
	}

	return &DecodedProof{Leaf: leaf, Path: path}, nil
}

// EncodeBundle renders a proof path into its wire form, declaring the path
// length explicitly. Used by tooling that produces fixtures.
func EncodeBundle(leaf []byte, path proof.Path) *ProofBundle {
	steps := make([]BundleStep, 0, len(path))
	for _, step := range path {
		steps = append(steps, BundleStep{
			Sibling:  hexutil.Encode(step.Sibling),
			Position: step.Direction.String(),
		})
	}
	length := len(steps)
	return &ProofBundle{
		Leaf:       hexutil.Encode(leaf),
		Steps:      steps,
		PathLength: &length,
	}
}

func parsePosition(s string) (proof.Direction, error) {
	switch s {
	case "left":
		return proof.DirectionLeft, nil
	case "right":
		return proof.DirectionRight, nil
	default:
		return 0, fmt.Errorf("position must be \"left\" or \"right\", got %q", s)
	}
}

// decodeHex accepts 0x-prefixed hex, including "0x" for the empty payload.
func decodeHex(s string) ([]byte, error) {
	if s == "0x" {
		return []byte{}, nil
	}
	return hexutil.Decode(s)
}
