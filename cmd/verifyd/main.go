package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/signware/merkle-verify-go/pkg/config"
	"github.com/signware/merkle-verify-go/pkg/hashing"
	"github.com/signware/merkle-verify-go/pkg/logger"
	"github.com/signware/merkle-verify-go/pkg/proof"
	"github.com/signware/merkle-verify-go/pkg/service"
)

func main() {
	app := &cli.App{
		Name:  "verifyd",
		Usage: "Merkle inclusion proof verification service",
		Description: `Verifies inclusion proofs against a trusted root provisioned at startup.

The trusted root is never taken from a request: it is supplied by the
integrator, typically pinned from a separately-verified source. Requests
carry only the claimed leaf and the proof path.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "trusted-root",
				Aliases:  []string{"root"},
				Usage:    "Hex-encoded trusted root hash (0x...)",
				EnvVars:  []string{config.EnvVerifierTrustedRoot},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "hash-algo",
				Aliases: []string{"algo"},
				Value:   config.DefaultHashAlgo,
				Usage:   fmt.Sprintf("Hash primitive: %s", strings.Join(hashing.Names(), ", ")),
				EnvVars: []string{config.EnvVerifierHashAlgo},
			},
			&cli.IntFlag{
				Name:    "max-depth",
				Aliases: []string{"d"},
				Value:   config.DefaultMaxDepth,
				Usage:   "Maximum accepted proof path length",
				EnvVars: []string{config.EnvVerifierMaxDepth},
			},
			&cli.StringFlag{
				Name:    "leaf-domain-tag",
				Usage:   "Optional hex byte prepended to leaf payloads before hashing (e.g. 0x00)",
				EnvVars: []string{config.EnvVerifierLeafTag},
			},
			&cli.StringFlag{
				Name:    "node-domain-tag",
				Usage:   "Optional hex byte prepended to folded node pairs (e.g. 0x01)",
				EnvVars: []string{config.EnvVerifierNodeTag},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{config.EnvVerifierPort},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvVerifierVerbose},
			},
		},
		Action: runVerifier,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runVerifier(c *cli.Context) error {
	loggerConfig := &logger.LoggerConfig{
		Debug: c.Bool("verbose"),
	}
	l, err := logger.NewLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	cfg := parseVerifierConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	hasher, err := hashing.New(cfg.HashAlgo)
	if err != nil {
		return fmt.Errorf("failed to create hasher: %w", err)
	}

	verifier, err := proof.NewVerifier(proof.Config{
		Hasher:        hasher,
		MaxDepth:      cfg.MaxDepth,
		LeafDomainTag: cfg.LeafTag,
		NodeDomainTag: cfg.NodeTag,
	})
	if err != nil {
		return fmt.Errorf("failed to create verifier: %w", err)
	}

	if c.Bool("verbose") {
		l.Sugar().Infow("Verifier configuration",
			"hash_algo", cfg.HashAlgo,
			"max_depth", cfg.MaxDepth,
			"trusted_root", cfg.TrustedRoot,
			"leaf_domain_tag", cfg.LeafDomainTag,
			"node_domain_tag", cfg.NodeDomainTag,
			"port", cfg.Port)
	}

	svc := service.NewService(cfg, verifier, l)

	l.Sugar().Infow("Available endpoints",
		"verify", "POST /verify",
		"health", "GET /healthz")

	return svc.Start()
}

func parseVerifierConfig(c *cli.Context) *config.VerifierConfig {
	return &config.VerifierConfig{
		HashAlgo:      c.String("hash-algo"),
		MaxDepth:      c.Int("max-depth"),
		TrustedRoot:   c.String("trusted-root"),
		LeafDomainTag: c.String("leaf-domain-tag"),
		NodeDomainTag: c.String("node-domain-tag"),
		Port:          c.Int("port"),
		Verbose:       c.Bool("verbose"),
	}
}
