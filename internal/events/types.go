// internal/events/types.go
package events

import (
	"encoding/json"
	"time"
)

// Kind names an inbound event on the stream.
type Kind string

const (
	// Stream events emitted by the trading backend.
	PortfolioUpdate Kind = "portfolio:update"
	TradeCompleted  Kind = "trade:completed"
	AgentActivity   Kind = "agent:activity"
	SystemStatus    Kind = "system:status"
	CycleComplete   Kind = "cycle:complete"
)

// Message is one inbound frame as delivered by the transport. The payload
// is the raw JSON body; the router forwards it without validation and
// handlers must decode defensively.
type Message struct {
	Kind     Kind
	Payload  json.RawMessage
	Received time.Time
}
