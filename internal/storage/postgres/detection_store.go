package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"eth-token-sniper/internal/storage"
)

// DetectionStore implements storage.DetectionStore using PostgreSQL.
type DetectionStore struct {
	pool *Pool
}

// NewDetectionStore creates a new DetectionStore.
func NewDetectionStore(pool *Pool) *DetectionStore {
	return &DetectionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DetectionStore = (*DetectionStore)(nil)

// Insert adds a detection. Returns ErrDuplicateKey if the
// (tx_hash, strategy) pair exists.
func (s *DetectionStore) Insert(ctx context.Context, d *storage.Detection) error {
	if d == nil || d.TxHash == "" || d.Strategy == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO detections (tx_hash, token, block, strategy, verified, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		strings.ToLower(d.TxHash),
		strings.ToLower(d.Token),
		d.Block,
		d.Strategy,
		d.Verified,
		d.DetectedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert detection: %w", err)
	}
	return nil
}

// GetByKey retrieves the detection for a (tx_hash, strategy) pair.
// Returns ErrNotFound if it does not exist.
func (s *DetectionStore) GetByKey(ctx context.Context, txHash, strategy string) (*storage.Detection, error) {
	query := `
		SELECT tx_hash, token, block, strategy, verified, detected_at
		FROM detections
		WHERE tx_hash = $1 AND strategy = $2
	`

	row := s.pool.QueryRow(ctx, query, strings.ToLower(txHash), strategy)

	var d storage.Detection
	err := row.Scan(
		&d.TxHash,
		&d.Token,
		&d.Block,
		&d.Strategy,
		&d.Verified,
		&d.DetectedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get detection by key: %w", err)
	}
	return &d, nil
}

// GetByTxHash retrieves all detections for a transaction.
func (s *DetectionStore) GetByTxHash(ctx context.Context, txHash string) ([]*storage.Detection, error) {
	query := `
		SELECT tx_hash, token, block, strategy, verified, detected_at
		FROM detections
		WHERE tx_hash = $1
		ORDER BY detected_at ASC, strategy ASC
	`

	rows, err := s.pool.Query(ctx, query, strings.ToLower(txHash))
	if err != nil {
		return nil, fmt.Errorf("get detections by tx hash: %w", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

// GetByToken retrieves all detections of a token.
func (s *DetectionStore) GetByToken(ctx context.Context, token string) ([]*storage.Detection, error) {
	query := `
		SELECT tx_hash, token, block, strategy, verified, detected_at
		FROM detections
		WHERE token = $1
		ORDER BY detected_at ASC, tx_hash ASC
	`

	rows, err := s.pool.Query(ctx, query, strings.ToLower(token))
	if err != nil {
		return nil, fmt.Errorf("get detections by token: %w", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

// GetByBlockRange retrieves detections within [from, to] inclusive.
func (s *DetectionStore) GetByBlockRange(ctx context.Context, from, to int64) ([]*storage.Detection, error) {
	query := `
		SELECT tx_hash, token, block, strategy, verified, detected_at
		FROM detections
		WHERE block >= $1 AND block <= $2
		ORDER BY block ASC, detected_at ASC, tx_hash ASC
	`

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get detections by block range: %w", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

// scanDetections scans rows into a slice of Detection.
func scanDetections(rows pgx.Rows) ([]*storage.Detection, error) {
	var detections []*storage.Detection

	for rows.Next() {
		var d storage.Detection
		err := rows.Scan(
			&d.TxHash,
			&d.Token,
			&d.Block,
			&d.Strategy,
			&d.Verified,
			&d.DetectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan detection row: %w", err)
		}
		detections = append(detections, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detection rows: %w", err)
	}

	return detections, nil
}
