// internal/transport/conn.go
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// Transport names, tried in order. Websocket is preferred; polling is
	// the degraded fallback.
	TransportWebSocket = "websocket"
	TransportPolling   = "polling"

	handshakeTimeout = 10 * time.Second
	readTimeout      = 90 * time.Second
	pollTimeout      = 30 * time.Second

	initialBackoff = 1 * time.Second
	maxBackoff     = 60 * time.Second
)

// Frame is one named event as framed on the wire.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// FrameSink receives decoded frames in arrival order.
type FrameSink func(Frame)

// Conn owns one logical streaming connection to the backend. It dials the
// preferred transport first and degrades through the fallback list; a
// dropped connection is redialed with exponential backoff. Events
// published while disconnected are not buffered or replayed — the stream
// only resumes going forward.
type Conn struct {
	baseURL    string
	transports []string
	sink       FrameSink
	logger     *zap.Logger

	mu     sync.Mutex
	ws     *websocket.Conn
	cancel context.CancelFunc
	group  *errgroup.Group
	opened bool

	httpClient *http.Client
}

// NewConn creates a connection against the backend base URL. Frames are
// delivered to the sink on a single goroutine, preserving arrival order.
func NewConn(baseURL string, transports []string, sink FrameSink, logger *zap.Logger) *Conn {
	if len(transports) == 0 {
		transports = []string{TransportWebSocket, TransportPolling}
	}
	return &Conn{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		transports: transports,
		sink:       sink,
		logger:     logger.Named("transport"),
		httpClient: &http.Client{Timeout: pollTimeout + handshakeTimeout},
	}
}

// Connect starts the connection loop. It returns immediately; connection
// establishment and reconnection happen in the background. Calling
// Connect on an open connection is a no-op.
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opened {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, runCtx := errgroup.WithContext(runCtx)
	c.cancel = cancel
	c.group = group
	c.opened = true

	group.Go(func() error {
		c.runLoop(runCtx)
		return nil
	})
	return nil
}

// Close tears the connection down and stops the loops. Idempotent. A
// subsequent Connect starts a fresh connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	if !c.opened {
		c.mu.Unlock()
		return nil
	}
	c.opened = false
	cancel := c.cancel
	group := c.group
	ws := c.ws
	c.ws = nil
	c.mu.Unlock()

	cancel()
	if ws != nil {
		_ = ws.Close()
	}
	return group.Wait()
}

// runLoop dials, reads until failure, and redials with backoff. Each
// transport in the fallback list is tried in order per attempt.
func (c *Conn) runLoop(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialBackoff
	bo.MaxInterval = maxBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		err := c.runOnce(ctx, bo)
		if ctx.Err() != nil {
			return
		}
		wait := bo.NextBackOff()
		c.logger.Warn("Stream disconnected, redialing",
			zap.Error(err),
			zap.Duration("backoff", wait))

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// runOnce tries each transport in order and serves the first that
// connects until it fails.
func (c *Conn) runOnce(ctx context.Context, bo *backoff.ExponentialBackOff) error {
	var lastErr error
	for _, transport := range c.transports {
		switch transport {
		case TransportWebSocket:
			ws, err := c.dialWebSocket(ctx)
			if err != nil {
				lastErr = err
				c.logger.Debug("WebSocket dial failed, degrading",
					zap.Error(err))
				continue
			}
			bo.Reset()
			c.logger.Info("Stream connected",
				zap.String("transport", TransportWebSocket))
			return c.readWebSocket(ctx, ws)

		case TransportPolling:
			bo.Reset()
			c.logger.Info("Stream connected",
				zap.String("transport", TransportPolling))
			return c.pollLoop(ctx)

		default:
			lastErr = fmt.Errorf("unknown transport %q", transport)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no usable transport")
	}
	return lastErr
}

func (c *Conn) dialWebSocket(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	ws, resp, err := dialer.DialContext(ctx, c.streamURL(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()
	return ws, nil
}

// readWebSocket reads frames until the connection drops.
func (c *Conn) readWebSocket(ctx context.Context, ws *websocket.Conn) error {
	defer func() {
		c.mu.Lock()
		if c.ws == ws {
			c.ws = nil
		}
		c.mu.Unlock()
		_ = ws.Close()
	}()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		c.deliver(raw)
	}
}

// pollLoop repeatedly long-polls the backend for batched frames.
func (c *Conn) pollLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pollURL(), nil)
		if err != nil {
			return fmt.Errorf("build poll request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("poll failed: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("poll failed with status %d", resp.StatusCode)
		}

		var frames []Frame
		err = json.NewDecoder(resp.Body).Decode(&frames)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode poll response: %w", err)
		}

		for _, frame := range frames {
			c.forward(frame)
		}
	}
}

// deliver decodes one raw websocket message into a frame. Messages that
// are not frame-shaped are logged and dropped; payload contents are
// forwarded without validation.
func (c *Conn) deliver(raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.logger.Warn("Dropping malformed frame", zap.Error(err))
		return
	}
	c.forward(frame)
}

// forward applies the frame-level checks shared by every transport before
// handing the frame to the sink.
func (c *Conn) forward(frame Frame) {
	if frame.Event == "" {
		c.logger.Warn("Dropping frame without event name")
		return
	}
	c.sink(frame)
}

func (c *Conn) streamURL() string {
	url := c.baseURL
	url = strings.Replace(url, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/stream"
}

func (c *Conn) pollURL() string {
	return c.baseURL + "/poll"
}

// Connected reports whether a live websocket is currently held. Polling
// mode reports false; it has no persistent connection.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws != nil
}
