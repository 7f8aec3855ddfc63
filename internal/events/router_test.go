// internal/events/router_test.go
package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func msg(kind Kind, payload string) Message {
	return Message{Kind: kind, Payload: json.RawMessage(payload)}
}

func TestDispatchIsolation(t *testing.T) {
	router := NewRouter(zap.NewNop())

	var tradeCalls, activityCalls int
	s1 := router.SubscribeFunc(TradeCompleted, func(context.Context, Message) error {
		tradeCalls++
		return nil
	})
	s2 := router.SubscribeFunc(AgentActivity, func(context.Context, Message) error {
		activityCalls++
		return nil
	})
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	router.Dispatch(context.Background(), msg(TradeCompleted, `{"id":"1"}`))

	assert.Equal(t, 1, tradeCalls)
	assert.Zero(t, activityCalls)
}

func TestDispatchAllHandlersForKind(t *testing.T) {
	router := NewRouter(zap.NewNop())

	var first, second []string
	s1 := router.SubscribeFunc(SystemStatus, func(_ context.Context, m Message) error {
		first = append(first, string(m.Payload))
		return nil
	})
	s2 := router.SubscribeFunc(SystemStatus, func(_ context.Context, m Message) error {
		second = append(second, string(m.Payload))
		return nil
	})
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	router.Dispatch(context.Background(), msg(SystemStatus, `{"isRunning":true}`))

	require.Len(t, first, 1)
	require.Len(t, second, 1)
}

func TestDispatchPreservesArrivalOrder(t *testing.T) {
	router := NewRouter(zap.NewNop())

	var seen []string
	sub := router.SubscribeFunc(TradeCompleted, func(_ context.Context, m Message) error {
		seen = append(seen, string(m.Payload))
		return nil
	})
	defer sub.Unsubscribe()

	for _, p := range []string{`"a"`, `"b"`, `"c"`} {
		router.Dispatch(context.Background(), msg(TradeCompleted, p))
	}

	assert.Equal(t, []string{`"a"`, `"b"`, `"c"`}, seen)
}

func TestUnsubscribeStopsDispatch(t *testing.T) {
	router := NewRouter(zap.NewNop())

	var calls int
	sub := router.SubscribeFunc(PortfolioUpdate, func(context.Context, Message) error {
		calls++
		return nil
	})

	router.Dispatch(context.Background(), msg(PortfolioUpdate, `{}`))
	sub.Unsubscribe()
	router.Dispatch(context.Background(), msg(PortfolioUpdate, `{}`))

	assert.Equal(t, 1, calls)
	assert.Zero(t, router.HandlerCount(PortfolioUpdate))
}

func TestUnsubscribeIdempotent(t *testing.T) {
	router := NewRouter(zap.NewNop())

	s1 := router.SubscribeFunc(CycleComplete, func(context.Context, Message) error { return nil })
	s2 := router.SubscribeFunc(CycleComplete, func(context.Context, Message) error { return nil })

	s1.Unsubscribe()
	s1.Unsubscribe()

	assert.Equal(t, 1, router.HandlerCount(CycleComplete))
	s2.Unsubscribe()
	assert.Zero(t, router.HandlerCount(CycleComplete))
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	router := NewRouter(zap.NewNop())

	var calls int
	s1 := router.SubscribeFunc(AgentActivity, func(context.Context, Message) error {
		return assert.AnError
	})
	s2 := router.SubscribeFunc(AgentActivity, func(context.Context, Message) error {
		calls++
		return nil
	})
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	router.Dispatch(context.Background(), msg(AgentActivity, `{}`))

	assert.Equal(t, 1, calls)
}

func TestDispatchUnknownKindIsNoop(t *testing.T) {
	router := NewRouter(zap.NewNop())

	// Malformed or unknown events are forwarded nowhere and must not panic.
	router.Dispatch(context.Background(), msg(Kind("bogus:event"), `not json`))
}
