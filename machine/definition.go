// Package machine holds the validated model of a state machine definition
// and a dispatch-table interpreter for it.
//
// A Definition is produced either by parsing DSL text (see the dsl package)
// or by constructing it programmatically. It is the input to both the code
// generator (see the codegen package) and the runtime Machine in this
// package.
package machine

import (
	"fmt"
	"sort"
)

// EventShape identifies an event by name plus its optional single payload
// type, excluding the payload's actual value. An empty Payload means a unit
// event.
type EventShape struct {
	Name    string
	Payload string
}

// IsUnit reports whether the event carries no payload.
func (e EventShape) IsUnit() bool { return e.Payload == "" }

func (e EventShape) String() string {
	if e.IsUnit() {
		return e.Name
	}
	return e.Name + "(" + e.Payload + ")"
}

// Transition is a single rule mapping (origin state, event shape) to
// (handler, destination state). Handler may be empty, in which case the
// transition is a default transition: the destination state is constructed
// from its zero value and no commands are emitted.
type Transition struct {
	From    string
	Event   EventShape
	Handler string
	To      string
}

func (t Transition) String() string {
	if t.Handler == "" {
		return fmt.Sprintf("%s --(%s)--> %s", t.From, t.Event, t.To)
	}
	return fmt.Sprintf("%s --(%s, %s)--> %s", t.From, t.Event, t.Handler, t.To)
}

// Definition is the semantic model of a state machine: its name, the
// optional command and error type names from the DSL header, and the
// ordered set of transitions. Transitions preserve declaration order with
// structural duplicates collapsed.
type Definition struct {
	Name        string
	CommandType string
	ErrorType   string
	Transitions []Transition
}

// StateNames returns the full vocabulary of distinct state names, projected
// from both ends of every transition. The result is sorted so that repeated
// compilations of the same definition are structurally identical.
func (d *Definition) StateNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range d.Transitions {
		if !seen[t.From] {
			seen[t.From] = true
			names = append(names, t.From)
		}
		if !seen[t.To] {
			seen[t.To] = true
			names = append(names, t.To)
		}
	}
	sort.Strings(names)
	return names
}

// Events returns the vocabulary of distinct event shapes, sorted by name.
func (d *Definition) Events() []EventShape {
	seen := make(map[string]bool)
	var events []EventShape
	for _, t := range d.Transitions {
		if !seen[t.Event.Name] {
			seen[t.Event.Name] = true
			events = append(events, t.Event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Name < events[j].Name })
	return events
}

// TransitionsFrom returns the transitions whose origin is state, in
// declaration order. This is the per-state dispatch table the synthesizer
// compiles into branch logic.
func (d *Definition) TransitionsFrom(state string) []Transition {
	var out []Transition
	for _, t := range d.Transitions {
		if t.From == state {
			out = append(out, t)
		}
	}
	return out
}

// Groups returns the mapping from each state name to its outgoing
// transitions. States with no outgoing transitions map to nil.
func (d *Definition) Groups() map[string][]Transition {
	groups := make(map[string][]Transition)
	for _, name := range d.StateNames() {
		groups[name] = d.TransitionsFrom(name)
	}
	return groups
}

// Validate checks the definition for authoring conflicts:
//
//   - two transitions from the same state on the same event name with a
//     different handler or destination (the dispatch could only resolve
//     these by declaration order, which is not a contract worth keeping);
//   - the same event name declared with two different payload types
//     anywhere in the table.
//
// A nil error means every state resolves every event to exactly one
// outcome.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("state machine has no name")
	}
	type key struct{ from, event string }
	firsts := make(map[key]Transition)
	payloads := make(map[string]string)
	for _, t := range d.Transitions {
		k := key{t.From, t.Event.Name}
		if prev, ok := firsts[k]; ok {
			// Structural duplicates are harmless; anything else means the
			// same (state, event) pair resolves to two different outcomes.
			if prev != t {
				return fmt.Errorf("conflicting transitions from state %s on event %s: %q vs %q",
					t.From, t.Event.Name, prev, t)
			}
			continue
		}
		firsts[k] = t
		if prev, ok := payloads[t.Event.Name]; ok {
			if prev != t.Event.Payload {
				return fmt.Errorf("event %s declared with payload type %q and %q",
					t.Event.Name, payloadName(prev), payloadName(t.Event.Payload))
			}
		} else {
			payloads[t.Event.Name] = t.Event.Payload
		}
	}
	return nil
}

func payloadName(p string) string {
	if p == "" {
		return "none"
	}
	return p
}
