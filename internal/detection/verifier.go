package detection

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"eth-token-sniper/internal/ethrpc"
	"eth-token-sniper/internal/observability"
)

// TxFetcher looks up a transaction by hash. (nil, nil) means the node
// does not know the hash.
type TxFetcher interface {
	GetTransactionByHash(ctx context.Context, txHash string) (*ethrpc.Transaction, error)
}

// CallerVerifier resolves a transaction's sender and checks it against
// the wanted deployer. It fails closed: any lookup or decode failure
// counts as not-wanted and lands in the rejected set, so the same hash
// is never retried within a session.
type CallerVerifier struct {
	fetcher TxFetcher
	wanted  string
	state   *state
	logger  *slog.Logger
}

func newCallerVerifier(fetcher TxFetcher, wanted common.Address, st *state, logger *slog.Logger) *CallerVerifier {
	return &CallerVerifier{
		fetcher: fetcher,
		wanted:  strings.ToLower(wanted.Hex()),
		state:   st,
		logger:  logger,
	}
}

// Verify reports whether txHash was sent by the wanted deployer.
func (v *CallerVerifier) Verify(ctx context.Context, txHash string) bool {
	if sender, ok := v.state.cachedSender(txHash); ok {
		observability.RecordVerificationCacheHit("positive")
		return sender == v.wanted
	}
	if v.state.isRejected(txHash) {
		observability.RecordVerificationCacheHit("negative")
		return false
	}

	observability.RecordVerificationLookup()
	tx, err := v.fetcher.GetTransactionByHash(ctx, txHash)
	if err != nil {
		v.logger.Warn("caller lookup failed", "tx_hash", txHash, "error", err)
		v.state.reject(txHash)
		return false
	}
	if tx == nil || tx.From == "" {
		v.state.reject(txHash)
		return false
	}

	sender := strings.ToLower(tx.From)
	v.state.storeSender(txHash, sender)
	if sender != v.wanted {
		v.state.reject(txHash)
		return false
	}
	return true
}
