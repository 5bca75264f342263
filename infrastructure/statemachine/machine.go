// Package statemachine drives the batch build lifecycle with statekit.
package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

// Transition records one lifecycle change.
type Transition struct {
	From   sheet.Status
	To     sheet.Status
	Reason string
	At     time.Time
}

// Context carries batch state through the machine.
type Context struct {
	BatchID     string
	Status      sheet.Status
	Pages       int
	Compiled    int
	Reason      string
	Transitions []Transition
	now         func() time.Time
}

// NewContext creates a machine context for a batch of the given size.
func NewContext(batchID string, pages int) *Context {
	return &Context{
		BatchID: batchID,
		Status:  sheet.StatusPending,
		Pages:   pages,
		now:     time.Now,
	}
}

// Event types.
const (
	EventStart    statekit.EventType = "START"
	EventCompiled statekit.EventType = "COMPILED"
	EventMerged   statekit.EventType = "MERGED"
	EventFail     statekit.EventType = "FAIL"
)

const (
	statePending   = statekit.StateID(sheet.StatusPending)
	stateCompiling = statekit.StateID(sheet.StatusCompiling)
	stateMerging   = statekit.StateID(sheet.StatusMerging)
	stateDone      = statekit.StateID(sheet.StatusDone)
	stateFailed    = statekit.StateID(sheet.StatusFailed)
)

// NewBatchMachine creates the batch statechart.
//
//	pending -START-> compiling -COMPILED-> merging -MERGED-> done
//	any non-final state -FAIL-> failed
//
// COMPILED is only accepted once every page has compiled.
func NewBatchMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("batch").
		WithInitial(statePending).
		WithContext(&Context{}).
		WithAction("record", recordTransition).
		WithGuard("allCompiled", guardAllCompiled).
		State(statePending).
			On(EventStart).Target(stateCompiling).Do("record").
			On(EventFail).Target(stateFailed).Do("record").
			Done().
		State(stateCompiling).
			On(EventCompiled).Target(stateMerging).Guard("allCompiled").Do("record").
			On(EventFail).Target(stateFailed).Do("record").
			Done().
		State(stateMerging).
			On(EventMerged).Target(stateDone).Do("record").
			On(EventFail).Target(stateFailed).Do("record").
			Done().
		State(stateDone).
			Final().
			Done().
		State(stateFailed).
			Final().
			Done().
		Build()
}

// targetFor maps an event to the status it leads to.
func targetFor(event statekit.EventType) sheet.Status {
	switch event {
	case EventStart:
		return sheet.StatusCompiling
	case EventCompiled:
		return sheet.StatusMerging
	case EventMerged:
		return sheet.StatusDone
	case EventFail:
		return sheet.StatusFailed
	default:
		return ""
	}
}
