package service

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/signware/merkle-verify-go/pkg/proof"
	"github.com/signware/merkle-verify-go/pkg/wire"
)

// maxRequestBody bounds request reads; a maximal-depth proof with hex
// encoding and JSON framing fits comfortably under 1 MiB.
const maxRequestBody = 1 << 20

// VerifyResponse is the JSON verdict returned for a proof bundle. A
// rejection is always a declined verification, never an HTTP error: the
// request itself was well formed, the proof just failed.
type VerifyResponse struct {
	Verified  bool   `json:"verified"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id"`
}

// handleVerify handles the /verify endpoint for inclusion proof checking
func (s *Service) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()

	if !s.limiter.Allow() {
		s.logger.Sugar().Warnw("Rate limit exceeded", "request_id", requestID)
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}

	decoded, err := wire.DecodeBundle(body)
	if err != nil {
		// An explicit length field disagreeing with the steps present is a
		// first-class rejection, not a transport failure.
		if errors.Is(err, wire.ErrDeclaredLength) {
			s.logger.Sugar().Infow("Proof declined",
				"request_id", requestID,
				"reason", proof.ReasonLengthMismatch.String())
			s.writeVerdict(w, requestID, proof.Rejected(proof.ReasonLengthMismatch))
			return
		}
		s.logger.Sugar().Infow("Malformed proof bundle", "request_id", requestID, "error", err)
		http.Error(w, "Malformed proof bundle", http.StatusBadRequest)
		return
	}

	result := s.verifier.Verify(decoded.Leaf, decoded.Path, s.root)

	if result.Verified {
		s.logger.Sugar().Infow("Proof verified",
			"request_id", requestID,
			"path_length", len(decoded.Path))
	} else {
		s.logger.Sugar().Infow("Proof declined",
			"request_id", requestID,
			"reason", result.Reason.String(),
			"path_length", len(decoded.Path))
	}

	s.writeVerdict(w, requestID, result)
}

// handleHealth reports liveness.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) writeVerdict(w http.ResponseWriter, requestID string, result proof.Result) {
	response := VerifyResponse{
		Verified:  result.Verified,
		RequestID: requestID,
	}
	if !result.Verified {
		response.Reason = result.Reason.String()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Sugar().Errorw("Failed to encode response", "request_id", requestID, "error", err)
	}
}
