package detection

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"eth-token-sniper/internal/ethrpc"
)

// LogSource queries historical logs.
type LogSource interface {
	GetLogs(ctx context.Context, filter ethrpc.LogFilter) ([]ethrpc.Log, error)
}

// Match is one detection produced by a range scan. Verified is true when
// the match went through caller verification rather than classifying
// directly from the event.
type Match struct {
	Token    string
	TxHash   string
	Block    uint64
	Verified bool
}

// RangeScanner replays the live pipeline's confidence branching over a
// historical block range. Unlike a live session it does not stop at the
// first match; it collects every detection in log order.
type RangeScanner struct {
	source   LogSource
	strategy Strategy
	verifier *CallerVerifier
	verify   bool
	filter   ethrpc.LogFilter
	state    *state
	logger   *slog.Logger
}

// NewRangeScanner builds a scanner from the same options a live session
// uses. Fetcher must be set, or Endpoint supplied, when VerifyCallers is
// true.
func NewRangeScanner(opts Options, source LogSource, strategy Strategy) *RangeScanner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = ethrpc.NewTxClient(opts.Endpoint)
	}

	st := newState(opts.Cache)

	return &RangeScanner{
		source:   source,
		strategy: strategy,
		verifier: newCallerVerifier(fetcher, opts.WantedDeployer, st, logger),
		verify:   opts.VerifyCallers,
		filter: ethrpc.LogFilter{
			Address: opts.FilterAddress,
			Topics:  opts.FilterTopics,
		},
		state:  st,
		logger: logger,
	}
}

// ScanRange fetches logs for [from, to] and returns the detections that
// the live pipeline would have finalized, in log order.
func (s *RangeScanner) ScanRange(ctx context.Context, from, to uint64) ([]Match, error) {
	filter := s.filter
	filter.FromBlock = fmt.Sprintf("0x%x", from)
	filter.ToBlock = fmt.Sprintf("0x%x", to)

	logs, err := s.source.GetLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("scan blocks %d-%d: %w", from, to, err)
	}
	s.logger.Info("scanning block range", "from", from, "to", to, "logs", len(logs))

	var matches []Match
	for i := range logs {
		event := &logs[i]
		if s.state.markProcessed(event.TransactionHash) {
			continue
		}

		cand, ok := s.strategy.Extract(event)
		if !ok {
			continue
		}

		switch cand.Confidence {
		case ConfidenceWanted:
			matches = append(matches, s.match(event, cand.Token, false))
		case ConfidenceUnwanted:
			s.logger.Info("skipping unwanted deployer",
				"token", cand.Token, "tx_hash", event.TransactionHash)
		case ConfidenceVerify:
			if !s.verify {
				matches = append(matches, s.match(event, cand.Token, false))
			} else if s.verifier.Verify(ctx, event.TransactionHash) {
				matches = append(matches, s.match(event, cand.Token, true))
			}
		}
	}
	return matches, nil
}

func (s *RangeScanner) match(event *ethrpc.Log, token string, verified bool) Match {
	block, err := parseHexUint(event.BlockNumber)
	if err != nil {
		s.logger.Warn("unparseable block number", "value", event.BlockNumber)
	}
	return Match{
		Token:    token,
		TxHash:   event.TransactionHash,
		Block:    block,
		Verified: verified,
	}
}

func parseHexUint(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
}
