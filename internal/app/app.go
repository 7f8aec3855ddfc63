// internal/app/app.go
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/quantai/console/internal/agents"
	"github.com/quantai/console/internal/config"
	"github.com/quantai/console/internal/events"
	"github.com/quantai/console/internal/gateway"
	"github.com/quantai/console/internal/state"
	"github.com/quantai/console/internal/transport"
	"github.com/quantai/console/internal/types"
	"go.uber.org/zap"
)

// App is the application context. It owns the streaming connection, the
// event router, the command gateway, and the four state containers, and
// is passed by reference to whatever consumes them. There are no
// module-level singletons; lifecycle is explicit through Open and Close.
type App struct {
	Router    *events.Router
	Conn      *transport.Conn
	Gateway   *gateway.Client
	Status    *state.StatusStore
	Portfolio *state.PortfolioStore
	Trades    *state.TradeLedger
	Activity  *state.ActivityFeed
	Agents    *agents.Registry

	logger      *zap.Logger
	subs        []events.Subscription
	opened      bool
	cyclesAcked atomic.Int64
}

// New builds an application context from configuration. Nothing connects
// until Open is called.
func New(cfg *config.Config, logger *zap.Logger) *App {
	a := &App{
		Router:    events.NewRouter(logger),
		Gateway:   gateway.NewClient(cfg.ServerURL, logger),
		Status:    state.NewStatusStore(logger),
		Portfolio: state.NewPortfolioStore(logger),
		Trades:    state.NewTradeLedger(logger),
		Activity:  state.NewActivityFeed(cfg.FeedLimit, logger),
		Agents:    agents.NewRegistry(),
		logger:    logger.Named("app"),
	}
	a.Conn = transport.NewConn(cfg.ServerURL, cfg.Transports, a.dispatch, logger)
	return a
}

// Open registers the stream handlers and starts the connection. Calling
// Open twice without Close is an error.
func (a *App) Open(ctx context.Context) error {
	if a.opened {
		return fmt.Errorf("app already open")
	}
	a.opened = true

	a.subs = []events.Subscription{
		a.Router.SubscribeFunc(events.PortfolioUpdate, a.onPortfolio),
		a.Router.SubscribeFunc(events.TradeCompleted, a.onTrade),
		a.Router.SubscribeFunc(events.AgentActivity, a.onActivity),
		a.Router.SubscribeFunc(events.SystemStatus, a.onStatus),
		a.Router.SubscribeFunc(events.CycleComplete, a.onCycleComplete),
	}

	if err := a.Conn.Connect(ctx); err != nil {
		a.disposeSubs()
		a.opened = false
		return fmt.Errorf("connect stream: %w", err)
	}

	a.logger.Info("Application context opened")
	return nil
}

// Close disposes the stream subscriptions before tearing down the
// connection, so no dispatch lands in a torn-down container. Idempotent.
func (a *App) Close() error {
	if !a.opened {
		return nil
	}
	a.opened = false

	a.disposeSubs()
	err := a.Conn.Close()
	a.logger.Info("Application context closed")
	return err
}

// CyclesAcked reports how many cycle:complete events arrived this session.
func (a *App) CyclesAcked() int64 {
	return a.cyclesAcked.Load()
}

func (a *App) disposeSubs() {
	for _, sub := range a.subs {
		sub.Unsubscribe()
	}
	a.subs = nil
}

// dispatch adapts transport frames to router messages. Frames arrive on a
// single goroutine, so container updates apply in arrival order per kind.
func (a *App) dispatch(frame transport.Frame) {
	a.Router.Dispatch(context.Background(), events.Message{
		Kind:     events.Kind(frame.Event),
		Payload:  frame.Data,
		Received: time.Now(),
	})
}

// Handlers decode defensively: a malformed payload is reported and
// dropped without touching the container.

func (a *App) onPortfolio(_ context.Context, msg events.Message) error {
	var data types.PortfolioData
	if err := json.Unmarshal(msg.Payload, &data); err != nil {
		return fmt.Errorf("malformed portfolio payload: %w", err)
	}
	a.Portfolio.Set(data)
	return nil
}

func (a *App) onTrade(_ context.Context, msg events.Message) error {
	var trade types.Trade
	if err := json.Unmarshal(msg.Payload, &trade); err != nil {
		return fmt.Errorf("malformed trade payload: %w", err)
	}
	a.Trades.Add(trade)
	return nil
}

func (a *App) onActivity(_ context.Context, msg events.Message) error {
	var activity types.AgentActivity
	if err := json.Unmarshal(msg.Payload, &activity); err != nil {
		return fmt.Errorf("malformed activity payload: %w", err)
	}
	a.Activity.Add(activity)
	return nil
}

func (a *App) onStatus(_ context.Context, msg events.Message) error {
	var status types.SystemStatus
	if err := json.Unmarshal(msg.Payload, &status); err != nil {
		return fmt.Errorf("malformed status payload: %w", err)
	}
	a.Status.Set(status)
	return nil
}

// onCycleComplete acknowledges the event; no container consumes it.
func (a *App) onCycleComplete(_ context.Context, msg events.Message) error {
	n := a.cyclesAcked.Add(1)
	a.logger.Info("Cycle complete", zap.Int64("acked", n))
	return nil
}
