// Package statemachine defines the contract implemented by every machine the
// fsmgen compiler produces: a finite state transducer which accepts events
// (the input alphabet), uses them to replace its current state, and may emit
// an ordered sequence of commands (the output alphabet) as a result.
package statemachine

// StateMachine is a finite state transducer over states S, events E and
// commands C. Implementations are sequential, single-owner values: callers
// sharing a machine across goroutines must serialize OnEvent themselves.
type StateMachine[S, E, C any] interface {
	// OnEvent applies an incoming event to the machine. Exactly one of the
	// three TransitionResult outcomes is produced per call. The machine
	// state changes only on a successful transition.
	OnEvent(event E) TransitionResult[S, C]

	// State returns the current state. It is a pure read accessor and
	// reflects the most recent successful transition only.
	State() S
}

// Outcome discriminates the three possible results of applying an event.
type Outcome int

const (
	// Invalid means the current state defines no transition for the event.
	// The machine performed no state change. It is the zero value, so a
	// zero TransitionResult is a well-defined unmatched-event outcome.
	Invalid Outcome = iota
	// Success carries the new state and the ordered commands it emitted.
	Success
	// Failed means the matched handler reported a domain error.
	Failed
)

// TransitionResult is the tri-state outcome of applying an event.
// It is a value, not control flow: callers must branch on it explicitly.
type TransitionResult[S, C any] struct {
	outcome  Outcome
	newState S
	commands []C
	err      error
}

// Ok wraps a successful transition into newState emitting the given
// commands. Command order is preserved exactly as supplied.
func Ok[S, C any](newState S, commands ...C) TransitionResult[S, C] {
	return TransitionResult[S, C]{outcome: Success, newState: newState, commands: commands}
}

// Default wraps a successful transition into the zero value of the
// destination state type D, emitting no commands. D must implement the
// machine's state interface S.
func Default[S, C, D any]() TransitionResult[S, C] {
	var dest D
	s, ok := any(dest).(S)
	if !ok {
		panic("statemachine: destination type does not implement the state interface")
	}
	return Ok[S, C](s)
}

// InvalidTransition reports that the event has no applicable transition
// from the current state.
func InvalidTransition[S, C any]() TransitionResult[S, C] {
	return TransitionResult[S, C]{outcome: Invalid}
}

// Fail wraps a domain error reported by a handler. The error is propagated
// verbatim to the caller.
func Fail[S, C any](err error) TransitionResult[S, C] {
	return TransitionResult[S, C]{outcome: Failed, err: err}
}

// Outcome returns the result discriminant.
func (r TransitionResult[S, C]) Outcome() Outcome { return r.outcome }

// IsSuccess reports whether the transition was applied.
func (r TransitionResult[S, C]) IsSuccess() bool { return r.outcome == Success }

// IsInvalid reports whether the event had no applicable transition.
func (r TransitionResult[S, C]) IsInvalid() bool { return r.outcome == Invalid }

// NewState returns the destination state of a successful transition.
func (r TransitionResult[S, C]) NewState() (S, bool) {
	return r.newState, r.outcome == Success
}

// Commands returns the emitted commands in the order the handler produced
// them. Nil unless the transition succeeded.
func (r TransitionResult[S, C]) Commands() []C { return r.commands }

// Err returns the handler error of a failed transition, or nil.
func (r TransitionResult[S, C]) Err() error { return r.err }

// UnwrapCommands returns the emitted commands, panicking if the transition
// was not successful. Intended for tests and examples.
func (r TransitionResult[S, C]) UnwrapCommands() []C {
	if r.outcome != Success {
		panic("statemachine: transition was not successful")
	}
	return r.commands
}

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Invalid:
		return "invalid-transition"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}
