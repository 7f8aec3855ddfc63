// internal/agents/registry.go
package agents

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Known agent identifiers. This is the closed set of agents the backend
// reports activity for.
const (
	Supervisor  = "supervisor"
	Researcher  = "researcher"
	Trader      = "trader"
	RiskManager = "risk_manager"
	Narrator    = "narrator"
)

// Badge is the display identity of an agent.
type Badge struct {
	Name  string
	Emoji string
	Color lipgloss.Color
}

// Registry maps the closed set of agent identifiers to their badges. The
// mapping is exhaustive and validated at construction; lookups for unknown
// names return the default badge rather than failing silently.
type Registry struct {
	badges map[string]Badge
	def    Badge
}

// knownAgents is the exhaustive identifier set the registry must cover.
var knownAgents = []string{Supervisor, Researcher, Trader, RiskManager, Narrator}

// NewRegistry builds the default registry.
func NewRegistry() *Registry {
	r, err := newRegistry(map[string]Badge{
		Supervisor:  {Name: "Supervisor", Emoji: "👔", Color: lipgloss.Color("99")},
		Researcher:  {Name: "Researcher", Emoji: "🔬", Color: lipgloss.Color("39")},
		Trader:      {Name: "Trader", Emoji: "📈", Color: lipgloss.Color("42")},
		RiskManager: {Name: "Risk Manager", Emoji: "🛡️", Color: lipgloss.Color("208")},
		Narrator:    {Name: "Narrator", Emoji: "🎙️", Color: lipgloss.Color("213")},
	})
	if err != nil {
		// The built-in mapping covers the closed set; reaching here is a
		// programming error.
		panic(err)
	}
	return r
}

// newRegistry validates that the mapping covers every known agent.
func newRegistry(badges map[string]Badge) (*Registry, error) {
	for _, name := range knownAgents {
		if _, ok := badges[name]; !ok {
			return nil, fmt.Errorf("agent registry missing badge for %q", name)
		}
	}
	return &Registry{
		badges: badges,
		def:    Badge{Name: "System", Emoji: "⚙️", Color: lipgloss.Color("245")},
	}, nil
}

// Badge returns the badge for an agent identifier, or the default badge
// for unknown names.
func (r *Registry) Badge(agent string) Badge {
	if b, ok := r.badges[agent]; ok {
		return b
	}
	return r.def
}

// Known reports whether the identifier belongs to the closed agent set.
func (r *Registry) Known(agent string) bool {
	_, ok := r.badges[agent]
	return ok
}

// Render formats an agent label with its badge color for terminal output.
func (b Badge) Render() string {
	style := lipgloss.NewStyle().Foreground(b.Color).Bold(true)
	return style.Render(b.Emoji + " " + b.Name)
}
