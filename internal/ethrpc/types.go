// Package ethrpc implements the small slice of the Ethereum JSON-RPC 2.0
// surface this project needs, spoken over WebSocket: log subscriptions,
// transaction lookup, and historical log queries.
package ethrpc

import (
	"encoding/json"
	"fmt"
)

// Log is an Ethereum log event as delivered by eth_subscribe("logs")
// notifications and eth_getLogs responses. All fields keep their wire
// encoding: 0x-prefixed hex strings.
type Log struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex"`
	Removed         bool     `json:"removed"`
}

// Transaction is the subset of eth_getTransactionByHash we consume.
type Transaction struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Input       string `json:"input"`
	BlockNumber string `json:"blockNumber"`
}

// LogFilter is the filter object for eth_subscribe("logs") and eth_getLogs.
type LogFilter struct {
	Address   string   `json:"address,omitempty"`
	Topics    []string `json:"topics,omitempty"`
	FromBlock string   `json:"fromBlock,omitempty"`
	ToBlock   string   `json:"toBlock,omitempty"`
}

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Message is the union of everything the server can send over a
// subscription connection: responses (id set, result or error) and
// notifications (method set, params carrying the payload).
type Message struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      *uint64             `json:"id"`
	Result  json.RawMessage     `json:"result"`
	Error   *Error              `json:"error"`
	Method  string              `json:"method"`
	Params  *subscriptionParams `json:"params"`
}

type subscriptionParams struct {
	Subscription string          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// DecodeMessage parses a raw frame into a Message.
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode rpc message: %w", err)
	}
	return &msg, nil
}

// IsResponse reports whether the message answers a request we sent.
func (m *Message) IsResponse() bool {
	return m.ID != nil
}

// IsNotification reports whether the message is an eth_subscription event.
func (m *Message) IsNotification() bool {
	return m.Method == "eth_subscription" && m.Params != nil
}

// EventPayload returns the log payload of a subscription notification.
func (m *Message) EventPayload() json.RawMessage {
	if m.Params == nil {
		return nil
	}
	return m.Params.Result
}
