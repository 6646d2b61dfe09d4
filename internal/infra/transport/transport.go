// Package transport carries wallet RPC requests to a wallet bridge.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vietddude/bitcoin-adapter/internal/connector"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/provider"
)

// Transport kinds
const (
	KindWebSocket = "websocket"
	KindHTTP      = "http"
)

// Transport is a connector.Provider that holds network resources.
type Transport interface {
	connector.Provider
	io.Closer
}

// RPCError is an error object returned by the wallet.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}

// New creates a transport of the given kind.
func New(kind, url string, timeout time.Duration, log *slog.Logger) (Transport, error) {
	switch kind {
	case KindWebSocket:
		return NewWebSocket(url, timeout, log), nil
	case KindHTTP, "":
		return NewHTTP(url, timeout), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", kind)
	}
}

// HTTP sends JSON-RPC 2.0 requests over plain HTTP.
type HTTP struct {
	p *provider.HTTPProvider
}

var _ Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{p: provider.NewHTTPProvider("wallet", url, timeout)}
}

func (h *HTTP) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return h.p.Call(ctx, method, params)
}

func (h *HTTP) Close() error {
	return h.p.Close()
}
