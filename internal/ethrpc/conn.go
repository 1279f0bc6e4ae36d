package ethrpc

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ConnConfig configures a single JSON-RPC WebSocket connection.
type ConnConfig struct {
	// HandshakeTimeout bounds the WebSocket dial.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds each outgoing request write.
	WriteTimeout time.Duration
}

// DefaultConnConfig returns the connection defaults.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// Conn is a single-purpose JSON-RPC connection over WebSocket. It issues
// requests with monotonically increasing ids and hands raw frames back to
// the caller; correlation is the caller's job. Not safe for concurrent
// writers.
type Conn struct {
	ws     *websocket.Conn
	config ConnConfig
	nextID atomic.Uint64
}

// Dial opens a WebSocket connection to the endpoint.
func Dial(ctx context.Context, endpoint string, config ConnConfig) (*Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: config.HandshakeTimeout,
	}

	ws, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", endpoint, err)
	}

	return &Conn{ws: ws, config: config}, nil
}

// WriteRequest sends a JSON-RPC request and returns the id it was
// assigned, for response correlation.
func (c *Conn) WriteRequest(method string, params []interface{}) (uint64, error) {
	id := c.nextID.Add(1)
	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}

	c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.ws.WriteJSON(req); err != nil {
		return 0, fmt.Errorf("write %s request: %w", method, err)
	}
	return id, nil
}

// ReadRaw blocks until the next frame arrives and returns its payload.
func (c *Conn) ReadRaw() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetReadDeadline bounds subsequent reads. The zero time removes the bound.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

// Close sends a close frame and tears the connection down.
func (c *Conn) Close() error {
	c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.ws.Close()
}

// IsClose reports whether err is an intentional close from the remote
// side: a close frame, with or without a status code. Abnormal closure
// (1006) is synthesized for abrupt drops and stays a transport error.
func IsClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
