package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

// recordTransition appends the transition and updates the status.
// statekit hands actions a pointer to the *Context.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx

	to := targetFor(event.Type)
	if to == "" {
		return
	}
	reason, _ := event.Payload.(string)
	if to == sheet.StatusFailed {
		c.Reason = reason
	}

	now := c.now
	if now == nil {
		now = time.Now
	}
	c.Transitions = append(c.Transitions, Transition{From: c.Status, To: to, Reason: reason, At: now()})
	c.Status = to
}

// guardAllCompiled blocks COMPILED until every page has compiled.
func guardAllCompiled(ctx *Context, _ statekit.Event) bool {
	return ctx != nil && ctx.Compiled == ctx.Pages
}

// accepts reports whether event is defined for the status, mirroring the
// chart in NewBatchMachine.
func accepts(c *Context, event statekit.EventType) bool {
	switch c.Status {
	case sheet.StatusPending:
		return event == EventStart || event == EventFail
	case sheet.StatusCompiling:
		return event == EventFail || (event == EventCompiled && guardAllCompiled(c, statekit.Event{Type: event}))
	case sheet.StatusMerging:
		return event == EventMerged || event == EventFail
	default:
		return false
	}
}
