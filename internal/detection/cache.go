package detection

import (
	"strings"
	"sync"

	"eth-token-sniper/internal/observability"
)

// Cache ceilings. The dedup ledger does a full clear when it fills; the
// verification caches piggyback on that reset, each clearing only when
// past its own threshold. Coarse on purpose: a session rarely lives long
// enough to wrap, and an LRU would add bookkeeping to the hot path.
const (
	DefaultDedupCeiling    = 1000
	DefaultCallerCeiling   = 500
	DefaultRejectedCeiling = 100
)

// CacheConfig sets the per-session cache ceilings. Zero values take the
// defaults.
type CacheConfig struct {
	DedupCeiling    int
	CallerCeiling   int
	RejectedCeiling int
}

func (c CacheConfig) withDefaults() CacheConfig {
	if c.DedupCeiling <= 0 {
		c.DedupCeiling = DefaultDedupCeiling
	}
	if c.CallerCeiling <= 0 {
		c.CallerCeiling = DefaultCallerCeiling
	}
	if c.RejectedCeiling <= 0 {
		c.RejectedCeiling = DefaultRejectedCeiling
	}
	return c
}

// state is the mutable per-session state: the stop flag, the dedup
// ledger, and the verification caches. All keys are lowercased tx hashes.
type state struct {
	cfg CacheConfig

	mu        sync.Mutex
	stop      bool
	processed map[string]struct{}
	callers   map[string]string
	rejected  map[string]struct{}
}

func newState(cfg CacheConfig) *state {
	s := &state{cfg: cfg.withDefaults()}
	s.reset()
	return s
}

// reset clears everything, including the stop flag. Called at the start
// of every detection session.
func (s *state) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop = false
	s.processed = make(map[string]struct{})
	s.callers = make(map[string]string)
	s.rejected = make(map[string]struct{})
}

// markProcessed records a tx hash in the dedup ledger. Returns true when
// the hash was already present. At the ceiling the whole ledger is
// cleared before the insert, so the triggering hash survives the reset.
func (s *state) markProcessed(txHash string) bool {
	key := strings.ToLower(txHash)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.processed[key]; ok {
		return true
	}

	if len(s.processed) >= s.cfg.DedupCeiling {
		s.processed = make(map[string]struct{})
		if len(s.callers) >= s.cfg.CallerCeiling {
			s.callers = make(map[string]string)
		}
		if len(s.rejected) >= s.cfg.RejectedCeiling {
			s.rejected = make(map[string]struct{})
		}
		observability.RecordCacheReset()
	}

	s.processed[key] = struct{}{}
	return false
}

func (s *state) shouldStop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop
}

func (s *state) requestStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop = true
}

// cachedSender returns the verified sender for a tx hash, if known.
func (s *state) cachedSender(txHash string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sender, ok := s.callers[strings.ToLower(txHash)]
	return sender, ok
}

func (s *state) storeSender(txHash, sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callers[strings.ToLower(txHash)] = strings.ToLower(sender)
}

func (s *state) isRejected(txHash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rejected[strings.ToLower(txHash)]
	return ok
}

func (s *state) reject(txHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected[strings.ToLower(txHash)] = struct{}{}
}
