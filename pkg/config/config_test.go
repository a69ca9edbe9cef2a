package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signware/merkle-verify-go/pkg/hashing"
)

// validConfig returns a configuration that passes Validate
func validConfig() *VerifierConfig {
	return &VerifierConfig{
		HashAlgo:    hashing.AlgoKeccak256,
		MaxDepth:    DefaultMaxDepth,
		TrustedRoot: "0x" + strings.Repeat("ab", 32),
		Port:        DefaultPort,
	}
}

// TestValidateAcceptsDefaults checks the happy path and decoded fields.
func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Root, 32)
	require.Nil(t, cfg.LeafTag)
	require.Nil(t, cfg.NodeTag)
}

// TestValidateDomainTags checks optional tag decoding.
func TestValidateDomainTags(t *testing.T) {
	cfg := validConfig()
	cfg.LeafDomainTag = "0x00"
	cfg.NodeDomainTag = "0x01"
	require.NoError(t, cfg.Validate())

	require.NotNil(t, cfg.LeafTag)
	require.Equal(t, byte(0x00), *cfg.LeafTag)
	require.NotNil(t, cfg.NodeTag)
	require.Equal(t, byte(0x01), *cfg.NodeTag)
}

// TestValidateRejections walks the rejection cases one field at a time.
func TestValidateRejections(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*VerifierConfig)
		errPart string
	}{
		{"Unknown hash algorithm", func(c *VerifierConfig) { c.HashAlgo = "md5" }, "invalid hash algorithm"},
		{"Zero max depth", func(c *VerifierConfig) { c.MaxDepth = 0 }, "max depth"},
		{"Excessive max depth", func(c *VerifierConfig) { c.MaxDepth = MaxDepthCeiling + 1 }, "max depth"},
		{"Zero port", func(c *VerifierConfig) { c.Port = 0 }, "port"},
		{"Port too large", func(c *VerifierConfig) { c.Port = 70000 }, "port"},
		{"Empty trusted root", func(c *VerifierConfig) { c.TrustedRoot = "" }, "trusted root cannot be empty"},
		{"Root without prefix", func(c *VerifierConfig) { c.TrustedRoot = strings.Repeat("ab", 32) }, "invalid trusted root"},
		{"Root wrong width", func(c *VerifierConfig) { c.TrustedRoot = "0x" + strings.Repeat("ab", 31) }, "trusted root must be 32 bytes"},
		{"Leaf tag too wide", func(c *VerifierConfig) { c.LeafDomainTag = "0x0001" }, "leaf domain tag"},
		{"Node tag bad hex", func(c *VerifierConfig) { c.NodeDomainTag = "01" }, "node domain tag"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errPart)
		})
	}
}
