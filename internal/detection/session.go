package detection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"eth-token-sniper/internal/ethrpc"
)

// Session failure sentinels. A clean remote close is not a failure; it
// surfaces as ("", nil).
var (
	// ErrConnect means the WebSocket dial failed.
	ErrConnect = errors.New("stream connect failed")
	// ErrSubscribe means the node rejected the log subscription.
	ErrSubscribe = errors.New("log subscription rejected")
	// ErrStream means the stream broke mid-session.
	ErrStream = errors.New("stream read failed")
)

// Options configures a detection session.
type Options struct {
	// Endpoint is the JSON-RPC WebSocket URL.
	Endpoint string
	// FilterAddress restricts the subscription to one emitting contract.
	// Empty means no address filter.
	FilterAddress string
	// FilterTopics restricts the subscription by topic. Empty means no
	// topic filter.
	FilterTopics []string
	// WantedDeployer is the sender that caller verification accepts.
	WantedDeployer common.Address
	// VerifyCallers enables transaction-sender verification for
	// ambiguous candidates. When false, ambiguous candidates finalize.
	VerifyCallers bool
	// Cache overrides the session cache ceilings.
	Cache CacheConfig
	// Fetcher overrides the transaction lookup used by verification.
	// Nil uses a fresh-connection client against Endpoint.
	Fetcher TxFetcher
	// Logger receives session and pipeline logging. Nil uses the default.
	Logger *slog.Logger
}

// Detector runs live detection sessions against a log stream. One
// Detector runs one session at a time; Detect resets all session state
// on entry so a Detector can be reused sequentially.
type Detector struct {
	opts  Options
	state *state
	pipe  *pipeline
}

// NewDetector builds a Detector around an extraction strategy.
// WantedDeployer feeds caller verification; pass the same address the
// strategy classifies as wanted.
func NewDetector(opts Options, strategy Strategy) *Detector {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = ethrpc.NewTxClient(opts.Endpoint)
	}

	st := newState(opts.Cache)
	verifier := newCallerVerifier(fetcher, opts.WantedDeployer, st, logger)

	return &Detector{
		opts:  opts,
		state: st,
		pipe: &pipeline{
			strategy: strategy,
			verifier: verifier,
			verify:   opts.VerifyCallers,
			state:    st,
			logger:   logger,
		},
	}
}

// Stop asks the running session to exit before its next dispatch.
func (d *Detector) Stop() {
	d.state.requestStop()
}

// Detect connects, subscribes, and dispatches log events until one
// finalizes. The token is returned as soon as an event finalizes; the
// callback, when non-nil, runs afterwards on its own goroutine. A clean
// remote close before any match returns ("", nil).
func (d *Detector) Detect(ctx context.Context, onTokenFound Callback) (string, error) {
	d.state.reset()
	logger := d.pipe.logger

	conn, err := ethrpc.Dial(ctx, d.opts.Endpoint, ethrpc.DefaultConnConfig())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnect, err)
	}

	// Closing the conn is the only way to interrupt a blocked read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	filter := ethrpc.LogFilter{
		Address: d.opts.FilterAddress,
		Topics:  d.opts.FilterTopics,
	}
	subReqID, err := conn.WriteRequest("eth_subscribe", []interface{}{"logs", filter})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubscribe, err)
	}
	logger.Info("subscribing to log stream",
		"endpoint", d.opts.Endpoint, "address", d.opts.FilterAddress)

	confirmed := false
	for {
		if d.state.shouldStop() {
			return "", nil
		}

		data, err := conn.ReadRaw()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if ethrpc.IsClose(err) {
				logger.Info("stream closed by remote, no token detected")
				return "", nil
			}
			return "", fmt.Errorf("%w: %v", ErrStream, err)
		}

		msg, err := ethrpc.DecodeMessage(data)
		if err != nil {
			logger.Warn("skipping malformed stream message", "error", err)
			continue
		}

		if msg.IsResponse() {
			if !confirmed && *msg.ID == subReqID {
				if msg.Error != nil {
					return "", fmt.Errorf("%w: %v", ErrSubscribe, msg.Error)
				}
				confirmed = true
				logger.Info("subscription confirmed",
					"subscription", string(msg.Result))
			}
			continue
		}

		// Nothing dispatches until the subscription ack lands.
		if !confirmed || !msg.IsNotification() {
			continue
		}

		var event ethrpc.Log
		if err := json.Unmarshal(msg.EventPayload(), &event); err != nil {
			logger.Warn("skipping undecodable log event", "error", err)
			continue
		}

		if token, found := d.pipe.process(ctx, &event, onTokenFound); found {
			logger.Info("token detected",
				"token", token, "tx_hash", event.TransactionHash)
			return token, nil
		}
	}
}
