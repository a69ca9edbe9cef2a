package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/signware/merkle-verify-go/pkg/config"
	"github.com/signware/merkle-verify-go/pkg/hashing"
	"github.com/signware/merkle-verify-go/pkg/merkletree"
	"github.com/signware/merkle-verify-go/pkg/wire"
)

// proofgen builds a synthetic merkle tree from leaf values given on the
// command line and prints the proof bundle for one of them, plus the root to
// provision the verifier with. Intended for fixtures and manual testing.
func main() {
	app := &cli.App{
		Name:      "proofgen",
		Usage:     "Generate a proof bundle from synthetic tree leaves",
		ArgsUsage: "leaf [leaf...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "hash-algo",
				Aliases: []string{"algo"},
				Value:   config.DefaultHashAlgo,
				Usage:   fmt.Sprintf("Hash primitive: %s", strings.Join(hashing.Names(), ", ")),
			},
			&cli.IntFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Value:   0,
				Usage:   "Index of the leaf to prove",
			},
			&cli.StringFlag{
				Name:  "leaf-domain-tag",
				Usage: "Optional hex byte prepended to leaf payloads (e.g. 0x00)",
			},
			&cli.StringFlag{
				Name:  "node-domain-tag",
				Usage: "Optional hex byte prepended to folded node pairs (e.g. 0x01)",
			},
		},
		Action: runProofgen,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

type proofgenOutput struct {
	Root   string            `json:"root"`
	Depth  int               `json:"depth"`
	Bundle *wire.ProofBundle `json:"bundle"`
}

func runProofgen(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one leaf value is required")
	}

	hasher, err := hashing.New(c.String("hash-algo"))
	if err != nil {
		return err
	}

	leafTag, err := parseTag(c.String("leaf-domain-tag"))
	if err != nil {
		return fmt.Errorf("invalid leaf domain tag: %w", err)
	}
	nodeTag, err := parseTag(c.String("node-domain-tag"))
	if err != nil {
		return fmt.Errorf("invalid node domain tag: %w", err)
	}

	payloads := make([][]byte, c.NArg())
	for i := 0; i < c.NArg(); i++ {
		payloads[i] = []byte(c.Args().Get(i))
	}

	tree, err := merkletree.Build(merkletree.Config{
		Hasher:        hasher,
		LeafDomainTag: leafTag,
		NodeDomainTag: nodeTag,
	}, payloads)
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}

	index := c.Int("index")
	path, err := tree.Proof(index)
	if err != nil {
		return fmt.Errorf("failed to generate proof: %w", err)
	}

	out := proofgenOutput{
		Root:   hexutil.Encode(tree.Root),
		Depth:  tree.Depth(),
		Bundle: wire.EncodeBundle(payloads[index], path),
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func parseTag(s string) (*byte, error) {
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
