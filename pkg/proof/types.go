package proof

// Direction states on which side of the running value a sibling hash is
// placed when the pair is folded. Getting this wrong silently computes a
// plausible but different root, so it is always explicit, never inferred.
type Direction uint8

const (
	// DirectionLeft places the sibling before the running value: hash(sibling ‖ running).
	DirectionLeft Direction = iota

	// DirectionRight places the sibling after the running value: hash(running ‖ sibling).
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "invalid"
	}
}

// Step is one level of an inclusion proof: a sibling hash and the side it
// occupies relative to the running value.
type Step struct {
	// Sibling is the sibling node hash, exactly one digest wide.
	Sibling []byte

	// Direction is the side the sibling is combined on.
	Direction Direction
}

// Path is an inclusion proof ordered from the leaf's immediate sibling up to
// the step adjacent to the root. Order is semantically significant.
type Path []Step

// RejectReason classifies why a proof was rejected.
type RejectReason uint8

const (
	// ReasonNone is the zero value carried by verified results.
	ReasonNone RejectReason = iota

	// ReasonMalformedPath means a structural violation: wrong hash width,
	// invalid direction, or a path longer than the configured maximum.
	ReasonMalformedPath

	// ReasonLengthMismatch means an explicit length field in the proof
	// encoding disagreed with the steps actually present.
	ReasonLengthMismatch

	// ReasonHashMismatch means the proof was well formed but the recomputed
	// root disagrees with the trusted root.
	ReasonHashMismatch
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformedPath:
		return "malformed_path"
	case ReasonLengthMismatch:
		return "length_mismatch"
	case ReasonHashMismatch:
		return "hash_mismatch"
	default:
		return "unknown"
	}
}

// Result is the verdict of a verification. Either Verified is true and
// Reason is ReasonNone, or Verified is false and Reason states why. There is
// no partial success.
type Result struct {
	Verified bool
	Reason   RejectReason
}

// Accepted returns the verified result.
func Accepted() Result {
	return Result{Verified: true, Reason: ReasonNone}
}

// Rejected returns a rejection carrying the given reason.
func Rejected(reason RejectReason) Result {
	return Result{Verified: false, Reason: reason}
}
