package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"eth-token-sniper/internal/storage"
)

// DetectionStore is an in-memory implementation of storage.DetectionStore.
type DetectionStore struct {
	mu   sync.RWMutex
	data map[string]*storage.Detection // keyed by tx_hash|strategy
	seq  map[string]int                // insertion order per key
	next int
}

// NewDetectionStore creates a new in-memory detection store.
func NewDetectionStore() *DetectionStore {
	return &DetectionStore{
		data: make(map[string]*storage.Detection),
		seq:  make(map[string]int),
	}
}

// Compile-time interface check.
var _ storage.DetectionStore = (*DetectionStore)(nil)

func key(txHash, strategy string) string {
	return strings.ToLower(txHash) + "|" + strategy
}

// Insert adds a detection. Returns ErrDuplicateKey if the
// (tx_hash, strategy) pair exists.
func (s *DetectionStore) Insert(_ context.Context, d *storage.Detection) error {
	if d == nil || d.TxHash == "" || d.Strategy == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(d.TxHash, d.Strategy)
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	detectionCopy := *d
	s.data[k] = &detectionCopy
	s.seq[k] = s.next
	s.next++
	return nil
}

// GetByKey retrieves the detection for a (tx_hash, strategy) pair.
// Returns ErrNotFound if it does not exist.
func (s *DetectionStore) GetByKey(_ context.Context, txHash, strategy string) (*storage.Detection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.data[key(txHash, strategy)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	detectionCopy := *d
	return &detectionCopy, nil
}

// GetByTxHash retrieves all detections for a transaction.
func (s *DetectionStore) GetByTxHash(_ context.Context, txHash string) ([]*storage.Detection, error) {
	return s.collect(func(d *storage.Detection) bool {
		return strings.EqualFold(d.TxHash, txHash)
	})
}

// GetByToken retrieves all detections of a token.
func (s *DetectionStore) GetByToken(_ context.Context, token string) ([]*storage.Detection, error) {
	return s.collect(func(d *storage.Detection) bool {
		return strings.EqualFold(d.Token, token)
	})
}

// GetByBlockRange retrieves detections within [from, to] inclusive.
func (s *DetectionStore) GetByBlockRange(_ context.Context, from, to int64) ([]*storage.Detection, error) {
	return s.collect(func(d *storage.Detection) bool {
		return d.Block >= from && d.Block <= to
	})
}

// collect returns copies of matching detections in insertion order.
func (s *DetectionStore) collect(match func(*storage.Detection) bool) ([]*storage.Detection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		seq int
		d   *storage.Detection
	}
	var entries []entry
	for k, d := range s.data {
		if match(d) {
			detectionCopy := *d
			entries = append(entries, entry{seq: s.seq[k], d: &detectionCopy})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	results := make([]*storage.Detection, len(entries))
	for i, e := range entries {
		results[i] = e.d
	}
	return results, nil
}
