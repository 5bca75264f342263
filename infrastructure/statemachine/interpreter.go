package statemachine

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

// ErrInvalidTransition is returned when an event is not accepted in the
// current state.
var ErrInvalidTransition = errors.New("invalid batch transition")

// Interpreter runs one batch through the lifecycle.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates an interpreter bound to ctx.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{interp: interp, ctx: ctx}
}

// Start enters the pending state.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Status = sheet.Status(i.interp.State().Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Status returns the current lifecycle state.
func (i *Interpreter) Status() sheet.Status {
	return sheet.Status(i.interp.State().Value)
}

// BeginCompile moves pending to compiling.
func (i *Interpreter) BeginCompile() error {
	return i.send(EventStart, "")
}

// PageCompiled counts one compiled page.
func (i *Interpreter) PageCompiled() {
	i.ctx.Compiled++
}

// BeginMerge moves compiling to merging once all pages are compiled.
func (i *Interpreter) BeginMerge() error {
	return i.send(EventCompiled, "")
}

// Finish moves merging to done.
func (i *Interpreter) Finish() error {
	return i.send(EventMerged, "")
}

// Fail moves any non-final state to failed.
func (i *Interpreter) Fail(reason string) error {
	return i.send(EventFail, reason)
}

// IsTerminal returns true once the batch is done or failed.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

func (i *Interpreter) send(event statekit.EventType, reason string) error {
	want := targetFor(event)
	from := i.Status()
	if !accepts(i.ctx, event) {
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
	}

	i.interp.Send(statekit.Event{Type: event, Payload: reason})

	if !i.interp.Matches(statekit.StateID(want)) {
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
	}
	return nil
}
