package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/signware/merkle-verify-go/pkg/hashing"
)

// Environment variable names for verifier service configuration
const (
	EnvVerifierHashAlgo    = "VERIFYD_HASH_ALGO"
	EnvVerifierMaxDepth    = "VERIFYD_MAX_DEPTH"
	EnvVerifierTrustedRoot = "VERIFYD_TRUSTED_ROOT"
	EnvVerifierLeafTag     = "VERIFYD_LEAF_DOMAIN_TAG"
	EnvVerifierNodeTag     = "VERIFYD_NODE_DOMAIN_TAG"
	EnvVerifierPort        = "VERIFYD_PORT"
	EnvVerifierVerbose     = "VERIFYD_VERBOSE"
)

// Defaults applied by the CLI when flags and environment are silent.
const (
	DefaultHashAlgo = hashing.AlgoKeccak256
	DefaultMaxDepth = 32
	DefaultPort     = 8000
)

// MaxDepthCeiling bounds integrator-chosen depths. 64 levels already address
// more leaves than any structure this service fronts can hold.
const MaxDepthCeiling = 64

// VerifierConfig represents the complete configuration for a verifier
// service instance.
type VerifierConfig struct {
	// Hash primitive
	HashAlgo string `json:"hash_algo"`

	// Proof shape
	MaxDepth int `json:"max_depth"`

	// TrustedRoot is the hex-encoded root hash this instance verifies
	// against. It is provisioned out-of-band by the integrator; requests
	// never supply it.
	TrustedRoot string `json:"trusted_root"`

	// Optional single-byte domain separation tags, hex encoded ("0x00").
	// Empty means the protocol does not domain-separate.
	LeafDomainTag string `json:"leaf_domain_tag,omitempty"`
	NodeDomainTag string `json:"node_domain_tag,omitempty"`

	// Operational settings
	Port    int  `json:"port"`
	Verbose bool `json:"verbose"`

	// Decoded values (populated by Validate)
	Root    []byte `json:"-"`
	LeafTag *byte  `json:"-"`
	NodeTag *byte  `json:"-"`
}

// Validate checks the configuration and populates the decoded fields.
func (c *VerifierConfig) Validate() error {
	hasher, err := hashing.New(c.HashAlgo)
	if err != nil {
		return fmt.Errorf("invalid hash algorithm: %w", err)
	}

	if c.MaxDepth < 1 || c.MaxDepth > MaxDepthCeiling {
		return fmt.Errorf("max depth must be between 1-%d, got %d", MaxDepthCeiling, c.MaxDepth)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1-65535, got %d", c.Port)
	}

	if c.TrustedRoot == "" {
		return fmt.Errorf("trusted root cannot be empty")
	}
	root, err := hexutil.Decode(c.TrustedRoot)
	if err != nil {
		return fmt.Errorf("invalid trusted root hex: %w", err)
	}
	if len(root) != hasher.Size() {
		return fmt.Errorf("trusted root must be %d bytes for %s, got %d", hasher.Size(), hasher.Name(), len(root))
	}
	c.Root = root

	c.LeafTag, err = parseDomainTag(c.LeafDomainTag)
	if err != nil {
		return fmt.Errorf("invalid leaf domain tag: %w", err)
	}
	c.NodeTag, err = parseDomainTag(c.NodeDomainTag)
	if err != nil {
		return fmt.Errorf("invalid node domain tag: %w", err)
	}

	return nil
}

// parseDomainTag decodes an optional hex-encoded single byte. An empty
// string disables domain separation for that role.
func parseDomainTag(s string) (*byte, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("domain tag must be exactly one byte, got %d", len(raw))
	}
	tag := raw[0]
	return &tag, nil
}
