package ethrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultCallTimeout bounds a single request/response round trip.
const DefaultCallTimeout = 10 * time.Second

// TxClient performs one-shot JSON-RPC calls against the stream endpoint.
// Every call dials a fresh WebSocket connection and tears it down after
// the response; calls are deliberately unbatched.
type TxClient struct {
	endpoint    string
	callTimeout time.Duration
}

// NewTxClient creates a TxClient for the given WebSocket endpoint.
func NewTxClient(endpoint string) *TxClient {
	return &TxClient{
		endpoint:    endpoint,
		callTimeout: DefaultCallTimeout,
	}
}

// GetTransactionByHash fetches a transaction. Returns (nil, nil) when the
// node does not know the hash.
func (c *TxClient) GetTransactionByHash(ctx context.Context, txHash string) (*Transaction, error) {
	raw, err := c.call(ctx, "eth_getTransactionByHash", []interface{}{txHash})
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}

	var tx Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

// GetLogs fetches historical logs matching the filter.
func (c *TxClient) GetLogs(ctx context.Context, filter LogFilter) ([]Log, error) {
	raw, err := c.call(ctx, "eth_getLogs", []interface{}{filter})
	if err != nil {
		return nil, err
	}

	var logs []Log
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	return logs, nil
}

// call dials, sends one request, and reads frames until the matching
// response arrives or the timeout lapses.
func (c *TxClient) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	conn, err := Dial(ctx, c.endpoint, DefaultConnConfig())
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetReadDeadline(deadline)

	id, err := conn.WriteRequest(method, params)
	if err != nil {
		return nil, err
	}

	for {
		data, err := conn.ReadRaw()
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", method, err)
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			return nil, err
		}
		if !msg.IsResponse() || *msg.ID != id {
			continue
		}
		if msg.Error != nil {
			return nil, fmt.Errorf("%s: %w", method, msg.Error)
		}
		return msg.Result, nil
	}
}
