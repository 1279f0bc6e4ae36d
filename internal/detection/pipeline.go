package detection

import (
	"context"
	"log/slog"

	"eth-token-sniper/internal/ethrpc"
	"eth-token-sniper/internal/observability"
)

// Callback receives the detected token address. It runs at most once per
// session, on its own goroutine, after the session has already returned.
type Callback func(token string) error

// pipeline applies the per-event contract: dedup, extract, classify,
// verify, decide. A nil verifier is only valid when verify is false.
type pipeline struct {
	strategy Strategy
	verifier *CallerVerifier
	verify   bool
	state    *state
	logger   *slog.Logger
}

// process runs one log event through the pipeline. It returns the token
// and true when the event finalizes the session.
func (p *pipeline) process(ctx context.Context, log *ethrpc.Log, cb Callback) (string, bool) {
	observability.RecordEventProcessed()

	if p.state.markProcessed(log.TransactionHash) {
		observability.RecordDedupSkip()
		return "", false
	}

	cand, ok := p.strategy.Extract(log)
	if !ok {
		return "", false
	}
	observability.RecordCandidate(cand.Confidence.String())

	switch cand.Confidence {
	case ConfidenceWanted:
		return p.finalize(cand.Token, cb), true

	case ConfidenceUnwanted:
		p.logger.Info("skipping unwanted deployer",
			"token", cand.Token, "tx_hash", log.TransactionHash)
		return "", false

	case ConfidenceVerify:
		if !p.verify {
			return p.finalize(cand.Token, cb), true
		}
		if p.verifier.Verify(ctx, log.TransactionHash) {
			return p.finalize(cand.Token, cb), true
		}
		p.logger.Info("caller verification rejected event",
			"token", cand.Token, "tx_hash", log.TransactionHash)
		return "", false
	}

	return "", false
}

// finalize stops the session and fires the callback without waiting for
// it. The token is returned to the session caller immediately; callback
// errors only get logged.
func (p *pipeline) finalize(token string, cb Callback) string {
	p.state.requestStop()
	observability.RecordDetection()

	if cb != nil {
		go func() {
			if err := cb(token); err != nil {
				observability.RecordCallbackFailure()
				p.logger.Error("detection callback failed", "token", token, "error", err)
			}
		}()
	}
	return token
}
