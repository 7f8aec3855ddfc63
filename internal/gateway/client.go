// internal/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quantai/console/internal/types"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every command call. A slow response fails the
// awaiting caller only; the event stream is unaffected.
const DefaultTimeout = 10 * time.Second

// Client is the command gateway: fire-and-forget request/response calls
// against the trading backend's REST surface. It performs no retries and
// no queuing; a failed call surfaces its error to the caller and leaves
// all state containers untouched. Containers only change when a
// corresponding stream event later arrives.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Ack is the backend's acknowledgement body for control commands.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StartRequest is the body of the start command.
type StartRequest struct {
	Cycles          int `json:"cycles"`
	IntervalSeconds int `json:"interval_seconds"`
}

// TradeHistory is the backend's completed/failed trade breakdown.
type TradeHistory struct {
	CompletedTrades   []types.Trade `json:"completedTrades"`
	FailedTrades      []types.Trade `json:"failedTrades"`
	TotalTrades       int           `json:"totalTrades"`
	SuccessfulTrades  int           `json:"successfulTrades"`
	FailedTradesCount int           `json:"failedTradesCount"`
}

// NewClient creates a gateway client for the given backend base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logger.Named("gateway"),
	}
}

// GetPortfolio reads the current portfolio snapshot.
func (c *Client) GetPortfolio(ctx context.Context) (types.PortfolioData, error) {
	var out types.PortfolioData
	err := c.get(ctx, "/portfolio", &out)
	return out, err
}

// GetStatus reads the current system status snapshot.
func (c *Client) GetStatus(ctx context.Context) (types.SystemStatus, error) {
	var out types.SystemStatus
	err := c.get(ctx, "/status", &out)
	return out, err
}

// GetTrades reads the trade list.
func (c *Client) GetTrades(ctx context.Context) ([]types.Trade, error) {
	var out []types.Trade
	err := c.get(ctx, "/trades", &out)
	return out, err
}

// GetAgents reads the agent list.
func (c *Client) GetAgents(ctx context.Context) ([]types.AgentInfo, error) {
	var out []types.AgentInfo
	err := c.get(ctx, "/agents", &out)
	return out, err
}

// GetHistory reads the completed/failed trade breakdown.
func (c *Client) GetHistory(ctx context.Context) (TradeHistory, error) {
	var out TradeHistory
	err := c.get(ctx, "/history", &out)
	return out, err
}

// GetConfig reads the backend's current configuration. The backend owns
// the schema; the keys are reported as-is.
func (c *Client) GetConfig(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.get(ctx, "/config", &out)
	return out, err
}

// GetAgent reads a single agent by name.
func (c *Client) GetAgent(ctx context.Context, name string) (types.AgentInfo, error) {
	var out types.AgentInfo
	err := c.get(ctx, "/agents/"+name, &out)
	return out, err
}

// Start begins autonomous trading for the given number of cycles at the
// given interval.
func (c *Client) Start(ctx context.Context, cycles, intervalSeconds int) (Ack, error) {
	if cycles <= 0 {
		return Ack{}, fmt.Errorf("cycles must be positive, got: %d", cycles)
	}
	if intervalSeconds <= 0 {
		return Ack{}, fmt.Errorf("interval_seconds must be positive, got: %d", intervalSeconds)
	}

	var out Ack
	err := c.post(ctx, "/start", StartRequest{Cycles: cycles, IntervalSeconds: intervalSeconds}, &out)
	return out, err
}

// Stop halts autonomous trading.
func (c *Client) Stop(ctx context.Context) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/stop", nil, &out)
	return out, err
}

// RunCycle executes a single trading cycle.
func (c *Client) RunCycle(ctx context.Context) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/cycle", nil, &out)
	return out, err
}

// Reset clears the backend's session state.
func (c *Client) Reset(ctx context.Context) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/reset", nil, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do issues one request. Any non-2xx status is surfaced as a generic
// failure; no structured error body is parsed.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Command call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Command call rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
