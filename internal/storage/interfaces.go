// Package storage defines the detection journal: a record of every
// detection produced by a scan, behind one interface with in-memory and
// Postgres implementations. The journal is an audit trail; live-session
// dedup state is in-memory only and never reads from it.
package storage

import "context"

// Detection is one journaled detection.
type Detection struct {
	// TxHash is the transaction that emitted the matching event.
	TxHash string
	// Token is the detected token address.
	Token string
	// Block is the block number of the event.
	Block int64
	// Strategy names the extraction strategy that matched.
	Strategy string
	// Verified is true when the detection passed caller verification.
	Verified bool
	// DetectedAt is a Unix timestamp (seconds).
	DetectedAt int64
}

// DetectionStore persists detections. Records are keyed by
// (tx_hash, strategy); re-inserting a key returns ErrDuplicateKey.
type DetectionStore interface {
	// Insert adds a detection.
	Insert(ctx context.Context, d *Detection) error

	// GetByKey retrieves the detection for a (tx_hash, strategy) pair.
	// Returns ErrNotFound when it does not exist.
	GetByKey(ctx context.Context, txHash, strategy string) (*Detection, error)

	// GetByTxHash retrieves all detections for a transaction, in
	// detection order.
	GetByTxHash(ctx context.Context, txHash string) ([]*Detection, error)

	// GetByToken retrieves all detections of a token, in detection order.
	GetByToken(ctx context.Context, token string) ([]*Detection, error)

	// GetByBlockRange retrieves detections within [from, to] inclusive,
	// ordered by block then detection time.
	GetByBlockRange(ctx context.Context, from, to int64) ([]*Detection, error)
}
