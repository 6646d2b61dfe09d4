package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bridgeHandler func(conn *websocket.Conn, req wsRequest)

// newBridge starts a websocket server that hands each request to h.
func newBridge(t *testing.T, h bridgeHandler) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			h(conn, req)
		}
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebSocket_Request(t *testing.T) {
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.NotEmpty(t, req.ID)
		_ = conn.WriteJSON(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]any{"method": req.Method},
		})
	})

	ws := NewWebSocket(url, 5*time.Second, nil)
	defer ws.Close()

	for _, method := range []string{"getAccounts", "getAddresses"} {
		res, err := ws.Request(context.Background(), method, map[string]any{"purposes": []string{"payment"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"method":"`+method+`"}`, string(res))
	}
}

func TestWebSocket_OutOfOrderResponses(t *testing.T) {
	held := make(chan wsRequest, 1)
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {
		if req.Method == "slow" {
			held <- req
			return
		}
		_ = conn.WriteJSON(map[string]any{"id": req.ID, "result": "fast"})
		slow := <-held
		_ = conn.WriteJSON(map[string]any{"id": slow.ID, "result": "slow"})
	})

	ws := NewWebSocket(url, 5*time.Second, nil)
	defer ws.Close()

	slowDone := make(chan string, 1)
	go func() {
		res, err := ws.Request(context.Background(), "slow", nil)
		assert.NoError(t, err)
		slowDone <- string(res)
	}()

	// the slow request must be registered on the bridge first
	require.Eventually(t, func() bool { return len(held) == 1 }, 2*time.Second, 5*time.Millisecond)

	res, err := ws.Request(context.Background(), "fast", nil)
	require.NoError(t, err)
	assert.Equal(t, `"fast"`, string(res))
	assert.Equal(t, `"slow"`, <-slowDone)
}

func TestWebSocket_WalletError(t *testing.T) {
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {
		_ = conn.WriteJSON(map[string]any{
			"id":    req.ID,
			"error": map[string]any{"code": 4001, "message": "User rejected the request"},
		})
	})

	ws := NewWebSocket(url, 5*time.Second, nil)
	defer ws.Close()

	_, err := ws.Request(context.Background(), "getAccounts", nil)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, 4001, rpcErr.Code)
	assert.Equal(t, "wallet error 4001: User rejected the request", err.Error())
}

func TestWebSocket_Timeout(t *testing.T) {
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {})

	ws := NewWebSocket(url, 50*time.Millisecond, nil)
	defer ws.Close()

	_, err := ws.Request(context.Background(), "getAccounts", nil)
	assert.ErrorContains(t, err, "no response")
}

func TestWebSocket_ContextCanceled(t *testing.T) {
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {})

	ws := NewWebSocket(url, 5*time.Second, nil)
	defer ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ws.Request(ctx, "getAccounts", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWebSocket_ConnectionDropFailsPending(t *testing.T) {
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {
		_ = conn.Close()
	})

	ws := NewWebSocket(url, 5*time.Second, nil)
	defer ws.Close()

	_, err := ws.Request(context.Background(), "getAccounts", nil)
	assert.ErrorContains(t, err, "connection lost")
}

func TestWebSocket_RedialAfterDrop(t *testing.T) {
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {
		if req.Method == "die" {
			_ = conn.Close()
			return
		}
		_ = conn.WriteJSON(map[string]any{"id": req.ID, "result": "ok"})
	})

	ws := NewWebSocket(url, 5*time.Second, nil)
	defer ws.Close()

	_, err := ws.Request(context.Background(), "die", nil)
	require.ErrorContains(t, err, "connection lost")
	require.Eventually(t, func() bool {
		ws.mu.Lock()
		defer ws.mu.Unlock()
		return ws.conn == nil
	}, 2*time.Second, 5*time.Millisecond)

	res, err := ws.Request(context.Background(), "getAccounts", nil)
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(res))
}

func TestWebSocket_DropLeavesNewerConnection(t *testing.T) {
	url := newBridge(t, func(conn *websocket.Conn, req wsRequest) {})

	ws := NewWebSocket(url, 5*time.Second, nil)
	defer ws.Close()

	stale, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	live, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	// a failed write replaced stale with live before stale's read loop exited
	ws.mu.Lock()
	ws.conn = live
	ws.mu.Unlock()

	staleCh := make(chan wsResult, 1)
	liveCh := make(chan wsResult, 1)
	ws.pmu.Lock()
	ws.pending["stale"] = wsPending{conn: stale, ch: staleCh}
	ws.pending["live"] = wsPending{conn: live, ch: liveCh}
	ws.pmu.Unlock()

	ws.drop(stale, errors.New("read failed"))

	select {
	case res := <-staleCh:
		assert.ErrorContains(t, res.err, "connection lost")
	default:
		t.Fatal("expected stale request to fail")
	}
	assert.Empty(t, liveCh)

	ws.pmu.Lock()
	_, stillPending := ws.pending["live"]
	ws.pmu.Unlock()
	assert.True(t, stillPending)

	ws.mu.Lock()
	assert.Same(t, live, ws.conn)
	ws.mu.Unlock()
}

func TestWebSocket_Closed(t *testing.T) {
	ws := NewWebSocket("ws://127.0.0.1:1", time.Second, nil)
	require.NoError(t, ws.Close())

	_, err := ws.Request(context.Background(), "getAccounts", nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWebSocket_DialFailure(t *testing.T) {
	ws := NewWebSocket("ws://127.0.0.1:1", time.Second, nil)
	defer ws.Close()

	_, err := ws.Request(context.Background(), "getAccounts", nil)
	assert.ErrorContains(t, err, "failed to dial wallet")
}

func TestHTTP_Request(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getAddresses", req["method"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     req["id"],
			"result": map[string]any{"addresses": []any{}},
		})
	}))
	defer server.Close()

	h := NewHTTP(server.URL, 5*time.Second)
	defer h.Close()

	res, err := h.Request(context.Background(), "getAddresses", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"addresses":[]}`, string(res))
}

func TestNew(t *testing.T) {
	tr, err := New(KindWebSocket, "ws://localhost", time.Second, nil)
	require.NoError(t, err)
	assert.IsType(t, &WebSocket{}, tr)

	tr, err = New(KindHTTP, "http://localhost", time.Second, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTP{}, tr)

	_, err = New("carrier-pigeon", "", time.Second, nil)
	assert.Error(t, err)
}
