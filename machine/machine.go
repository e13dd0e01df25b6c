package machine

import (
	"errors"
	"fmt"

	"github.com/Sushisource/fsmgen/statemachine"
)

// Machine construction errors.
var (
	ErrUnknownState   = errors.New("initial state is not in the machine's vocabulary")
	ErrMissingHandler = errors.New("transition names an unregistered handler")
)

// State is a state instance held by an interpreted Machine: the state's
// vocabulary name plus its domain data.
type State struct {
	Name string
	Data any
}

// Event is an event instance dispatched to an interpreted Machine: the
// event's vocabulary name plus its payload value, nil for unit events.
type Event struct {
	Name    string
	Payload any
}

// TransitionResult is the outcome type produced by interpreted machines.
type TransitionResult = statemachine.TransitionResult[State, any]

// Handler computes a transition outcome from the current state's data and
// the event payload (nil for unit events). The handler's return value fully
// determines the outcome; the machine does not interpret handler internals.
type Handler func(data, payload any) TransitionResult

// Config wires domain code into an interpreted machine.
type Config struct {
	// Handlers maps the handler names used in the definition to callables.
	// Every handler named by a transition must be present.
	Handlers map[string]Handler

	// StateData supplies per-state default constructors used by
	// handler-less transitions. A state without an entry defaults to nil
	// data.
	StateData map[string]func() any
}

// Machine evaluates a Definition as a runtime dispatch table. It is the
// interpreted counterpart of the code generator: same contract, no build
// step. A Machine is a sequential, single-owner value; callers sharing one
// across goroutines must serialize OnEvent themselves.
type Machine struct {
	def       *Definition
	handlers  map[string]Handler
	stateData map[string]func() any
	current   State
}

var _ statemachine.StateMachine[State, Event, any] = (*Machine)(nil)

// New builds an interpreted machine from a validated definition. It fails
// if the definition does not validate, if the initial state is not part of
// the vocabulary, or if any transition names a handler missing from cfg —
// the runtime analog of the generated code failing to compile.
func New(def *Definition, cfg Config, initial State) (*Machine, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	known := false
	for _, name := range def.StateNames() {
		if name == initial.Name {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownState, initial.Name)
	}
	for _, t := range def.Transitions {
		if t.Handler == "" {
			continue
		}
		if _, ok := cfg.Handlers[t.Handler]; !ok {
			return nil, fmt.Errorf("%w: %s (transition %q)", ErrMissingHandler, t.Handler, t)
		}
	}
	return &Machine{
		def:       def,
		handlers:  cfg.Handlers,
		stateData: cfg.StateData,
		current:   initial,
	}, nil
}

// State returns the current state. Pure accessor; reflects the most recent
// successful transition only.
func (m *Machine) State() State { return m.current }

// Definition returns the model the machine was built from.
func (m *Machine) Definition() *Definition { return m.def }

// OnEvent applies an event instance to the machine.
//
// The transition group of the current state is scanned in declaration
// order for the event's shape. A matched transition with a handler
// delegates the outcome to it; one without a handler performs a default
// transition (zero commands, destination state constructed from its
// StateData factory or nil). An unmatched event yields InvalidTransition
// and the machine's state is preserved unchanged. After a handler error
// the state is likewise preserved.
func (m *Machine) OnEvent(event Event) TransitionResult {
	for _, t := range m.def.TransitionsFrom(m.current.Name) {
		if t.Event.Name != event.Name {
			continue
		}
		var res TransitionResult
		if t.Handler != "" {
			res = m.handlers[t.Handler](m.current.Data, event.Payload)
		} else {
			res = statemachine.Ok[State, any](State{Name: t.To, Data: m.defaultData(t.To)})
		}
		if next, ok := res.NewState(); ok {
			m.current = next
		}
		return res
	}
	return statemachine.InvalidTransition[State, any]()
}

func (m *Machine) defaultData(state string) any {
	if factory, ok := m.stateData[state]; ok {
		return factory()
	}
	return nil
}
