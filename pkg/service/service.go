// Package service is the request-handling collaborator around the verifier
// core: it decodes wire requests, invokes the verifier with the provisioned
// trusted root, and maps verdicts to responses. It keeps no state beyond its
// immutable configuration.
package service

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/signware/merkle-verify-go/pkg/config"
	"github.com/signware/merkle-verify-go/pkg/proof"
)

// Every verification is a bounded amount of hashing, so a generous
// per-instance limit only guards against a misbehaving client hammering the
// endpoint.
const (
	requestsPerSecond = 200
	requestBurst      = 50
)

// Service serves proof verification over HTTP.
type Service struct {
	verifier *proof.Verifier
	root     []byte
	port     int
	logger   *zap.Logger
	limiter  *rate.Limiter
}

// NewService wires a verifier and its provisioned trusted root into an HTTP
// service. The root is assumed already validated by the integrator.
func NewService(cfg *config.VerifierConfig, verifier *proof.Verifier, l *zap.Logger) *Service {
	return &Service{
		verifier: verifier,
		root:     cfg.Root,
		port:     cfg.Port,
		logger:   l,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// Handler returns the HTTP handler for the service endpoints.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/verify", s.handleVerify)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start blocks serving HTTP on the configured port.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Sugar().Infow("Starting verifier service",
		"addr", addr,
		"hash_width", s.verifier.Width(),
		"max_depth", s.verifier.MaxDepth())
	return http.ListenAndServe(addr, s.Handler())
}
