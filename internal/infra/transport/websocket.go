package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrClosed is returned for requests on a closed transport.
var ErrClosed = errors.New("transport closed")

type wsRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type wsResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

type wsResult struct {
	resp wsResponse
	err  error
}

// wsPending is a request waiting on the connection it was written to.
type wsPending struct {
	conn *websocket.Conn
	ch   chan wsResult
}

// WebSocket multiplexes JSON-RPC 2.0 requests over one connection.
// Responses are matched by id. The connection is dialed lazily and
// redialed after a drop.
type WebSocket struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
	log     *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	pmu     sync.Mutex
	pending map[string]wsPending
}

var _ Transport = (*WebSocket)(nil)

// NewWebSocket creates a websocket transport.
func NewWebSocket(url string, timeout time.Duration, log *slog.Logger) *WebSocket {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &WebSocket{
		url:     url,
		timeout: timeout,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:     log.With("transport", "websocket", "url", url),
		pending: make(map[string]wsPending),
	}
}

func (w *WebSocket) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := uuid.NewString()
	ch := make(chan wsResult, 1)
	defer w.forget(id)

	if err := w.send(ctx, wsRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}, ch); err != nil {
		return nil, err
	}

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%s: no response after %v", method, w.timeout)
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		if res.resp.Error != nil {
			return nil, res.resp.Error
		}
		return res.resp.Result, nil
	}
}

// send writes req and registers ch against the connection it was written to.
func (w *WebSocket) send(ctx context.Context, req wsRequest, ch chan wsResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	if w.conn == nil {
		conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
		if err != nil {
			return fmt.Errorf("failed to dial wallet: %w", err)
		}
		w.conn = conn
		go w.readLoop(conn)
	}

	deadline := time.Now().Add(w.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	w.pmu.Lock()
	w.pending[req.ID] = wsPending{conn: w.conn, ch: ch}
	w.pmu.Unlock()

	_ = w.conn.SetWriteDeadline(deadline)
	if err := w.conn.WriteJSON(req); err != nil {
		_ = w.conn.Close()
		w.conn = nil
		return fmt.Errorf("failed to write request: %w", err)
	}
	return nil
}

func (w *WebSocket) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.log.Warn("wallet connection lost", "error", err)
			}
			w.drop(conn, err)
			return
		}

		var resp wsResponse
		if err := json.Unmarshal(msg, &resp); err != nil {
			w.log.Warn("ignoring malformed message", "error", err)
			continue
		}

		w.pmu.Lock()
		p, ok := w.pending[resp.ID]
		w.pmu.Unlock()
		if !ok || p.conn != conn {
			// unsolicited or late response
			w.log.Debug("ignoring response", "id", resp.ID)
			continue
		}
		select {
		case p.ch <- wsResult{resp: resp}:
		default:
		}
	}
}

func (w *WebSocket) forget(id string) {
	w.pmu.Lock()
	delete(w.pending, id)
	w.pmu.Unlock()
}

// drop forgets conn and fails the requests still waiting on it. Requests
// written to a newer connection are left alone.
func (w *WebSocket) drop(conn *websocket.Conn, cause error) {
	w.mu.Lock()
	if w.conn == conn {
		w.conn = nil
	}
	closed := w.closed
	w.mu.Unlock()
	_ = conn.Close()

	err := fmt.Errorf("wallet connection lost: %w", cause)
	if closed {
		err = ErrClosed
	}

	w.pmu.Lock()
	defer w.pmu.Unlock()
	for id, p := range w.pending {
		if p.conn != conn {
			continue
		}
		select {
		case p.ch <- wsResult{err: err}:
		default:
		}
		delete(w.pending, id)
	}
}

// Close closes the connection. Pending requests fail with ErrClosed.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.conn == nil {
		return nil
	}
	_ = w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := w.conn.Close()
	w.conn = nil
	return err
}
