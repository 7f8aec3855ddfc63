// cmd/console/tail.go
package main

import (
	"fmt"
	"io"

	"github.com/quantai/console/internal/app"
	"github.com/quantai/console/internal/state"
)

// tail prints each new activity entry as it lands in the feed, with the
// agent's badge styling.
type tail struct {
	app  *app.App
	out  io.Writer
	seen string
	sub  state.Subscription
}

func newTail(a *app.App, out io.Writer) *tail {
	t := &tail{app: a, out: out}
	t.sub = a.Activity.Subscribe(t.onUpdate)
	return t
}

// onUpdate runs synchronously after each feed insertion; the newest entry
// is at the head.
func (t *tail) onUpdate() {
	entries := t.app.Activity.All()
	if len(entries) == 0 {
		return
	}
	latest := entries[0]
	if latest.ID != "" && latest.ID == t.seen {
		return
	}
	t.seen = latest.ID

	badge := t.app.Agents.Badge(latest.Agent)
	fmt.Fprintf(t.out, "%s  %s\n", badge.Render(), latest.Message)
}

// Stop deregisters the feed subscription. Must run before the tail's
// writer goes away.
func (t *tail) Stop() {
	t.sub.Unsubscribe()
}
