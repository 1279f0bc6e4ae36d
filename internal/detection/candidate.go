// Package detection implements the token-deployment detection engine:
// candidate extraction strategies, session caches, caller verification,
// the per-event pipeline, and the live subscription session.
package detection

// Confidence classifies an extracted candidate.
type Confidence int

const (
	// ConfidenceWanted means the event matched the wanted deployer.
	ConfidenceWanted Confidence = iota
	// ConfidenceUnwanted means the event matched a known-bad deployer.
	ConfidenceUnwanted
	// ConfidenceVerify means the deployer could not be classified from
	// the event alone and needs a transaction-sender lookup.
	ConfidenceVerify
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceWanted:
		return "wanted"
	case ConfidenceUnwanted:
		return "unwanted"
	case ConfidenceVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// Candidate is a potential token deployment extracted from one log event.
// Candidates live for a single pipeline pass and are never persisted.
type Candidate struct {
	Token      string
	Confidence Confidence
}

const zeroAddressBody = "0000000000000000000000000000000000000000"
