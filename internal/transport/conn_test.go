// internal/transport/conn_test.go
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// frameCollector records delivered frames in arrival order.
type frameCollector struct {
	mu     sync.Mutex
	frames []Frame
}

func (c *frameCollector) sink(f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
}

func (c *frameCollector) snapshot() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *frameCollector) waitFor(t *testing.T, n int) []Frame {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := c.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d frames, have %d", n, len(c.snapshot()))
	return nil
}

func TestWebSocketTransportDeliversFramesInOrder(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stream", r.URL.Path)
		ws, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer ws.Close()

		frames := []string{
			`{"event":"system:status","data":{"isRunning":true}}`,
			`{"event":"trade:completed","data":{"id":"1"}}`,
			`{"event":"agent:activity","data":{"id":"2","agent":"trader"}}`,
		}
		for _, f := range frames {
			require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(f)))
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	collector := &frameCollector{}
	conn := NewConn(server.URL, []string{TransportWebSocket}, collector.sink, zap.NewNop())

	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Close()

	got := collector.waitFor(t, 3)
	assert.Equal(t, "system:status", got[0].Event)
	assert.Equal(t, "trade:completed", got[1].Event)
	assert.Equal(t, "agent:activity", got[2].Event)
	assert.JSONEq(t, `{"id":"1"}`, string(got[1].Data))
}

func TestWebSocketTransportDropsMalformedFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer ws.Close()

		_ = ws.WriteMessage(websocket.TextMessage, []byte(`not json at all`))
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"data":{"orphan":true}}`))
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"system:status","data":{}}`))
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	collector := &frameCollector{}
	conn := NewConn(server.URL, []string{TransportWebSocket}, collector.sink, zap.NewNop())

	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Close()

	got := collector.waitFor(t, 1)
	assert.Equal(t, "system:status", got[0].Event)
}

func TestPollingFallbackDeliversFrames(t *testing.T) {
	var polls int
	var pollMu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/poll" {
			http.NotFound(w, r)
			return
		}
		pollMu.Lock()
		polls++
		first := polls == 1
		pollMu.Unlock()

		var frames []Frame
		if first {
			frames = []Frame{
				{Event: "system:status", Data: json.RawMessage(`{"isRunning":true}`)},
				{Event: "cycle:complete", Data: json.RawMessage(`{}`)},
			}
		}
		_ = json.NewEncoder(w).Encode(frames)
	}))
	defer server.Close()

	collector := &frameCollector{}
	// Polling only: the preferred websocket transport is not offered.
	conn := NewConn(server.URL, []string{TransportPolling}, collector.sink, zap.NewNop())

	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Close()

	got := collector.waitFor(t, 2)
	assert.Equal(t, "system:status", got[0].Event)
	assert.Equal(t, "cycle:complete", got[1].Event)
}

func TestPollingDropsNamelessFrames(t *testing.T) {
	var polls int
	var pollMu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pollMu.Lock()
		polls++
		first := polls == 1
		pollMu.Unlock()

		var frames []Frame
		if first {
			frames = []Frame{
				{Event: "", Data: json.RawMessage(`{"orphan":true}`)},
				{Event: "system:status", Data: json.RawMessage(`{"isRunning":true}`)},
			}
		}
		_ = json.NewEncoder(w).Encode(frames)
	}))
	defer server.Close()

	collector := &frameCollector{}
	conn := NewConn(server.URL, []string{TransportPolling}, collector.sink, zap.NewNop())

	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Close()

	// The nameless frame is dropped on polling exactly as on websocket.
	got := collector.waitFor(t, 1)
	assert.Equal(t, "system:status", got[0].Event)
	assert.Len(t, got, 1)
}

func TestConnectIsIdempotentAndCloseStops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Frame{})
	}))
	defer server.Close()

	collector := &frameCollector{}
	conn := NewConn(server.URL, []string{TransportPolling}, collector.sink, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))
	require.NoError(t, conn.Connect(ctx))

	require.NoError(t, conn.Close())
	// Close again is a no-op.
	require.NoError(t, conn.Close())
}

func TestStreamURLDerivation(t *testing.T) {
	conn := NewConn("https://quantai.example.com/", nil, func(Frame) {}, zap.NewNop())
	assert.Equal(t, "wss://quantai.example.com/stream", conn.streamURL())
	assert.True(t, strings.HasSuffix(conn.pollURL(), "/poll"))

	plain := NewConn("http://localhost:8000", nil, func(Frame) {}, zap.NewNop())
	assert.Equal(t, "ws://localhost:8000/stream", plain.streamURL())
}
