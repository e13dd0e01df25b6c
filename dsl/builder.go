package dsl

import (
	"strings"

	"github.com/Sushisource/fsmgen/machine"
)

// Builder provides a fluent API for constructing machine definitions
// without going through DSL text. Both routes produce identical models.
type Builder struct {
	node *MachineNode

	// Transition under construction; flushed by To().
	from    string
	event   EventNode
	handler string
}

// Build creates a new definition builder for a machine with the given name.
func Build(name string) *Builder {
	return &Builder{node: &MachineNode{Name: name}}
}

// Commands sets the command type name from the DSL header.
func (b *Builder) Commands(typeName string) *Builder {
	b.node.CommandType = typeName
	return b
}

// Errors sets the error type name from the DSL header.
func (b *Builder) Errors(typeName string) *Builder {
	b.node.ErrorType = typeName
	return b
}

// From starts a transition at the given origin state.
func (b *Builder) From(state string) *Builder {
	b.from = state
	b.event = EventNode{}
	b.handler = ""
	return b
}

// On sets a unit event for the current transition.
func (b *Builder) On(event string) *Builder {
	b.event = EventNode{Name: event}
	return b
}

// OnPayload sets a one-payload event for the current transition.
func (b *Builder) OnPayload(event, payloadType string) *Builder {
	b.event = EventNode{Name: event, Payload: payloadType}
	return b
}

// Handle names the handler for the current transition. Without it the
// transition is a default transition.
func (b *Builder) Handle(handler string) *Builder {
	b.handler = handler
	return b
}

// To completes the current transition with its destination state.
func (b *Builder) To(state string) *Builder {
	b.node.Transitions = append(b.node.Transitions, &TransitionNode{
		From:    b.from,
		Event:   b.event,
		Handler: b.handler,
		To:      state,
	})
	// Keep the origin so chained transitions from the same state read
	// naturally; the event and handler always belong to one statement.
	b.event = EventNode{}
	b.handler = ""
	return b
}

// AST returns the underlying definition node.
func (b *Builder) AST() *MachineNode {
	return b.node
}

// Definition builds and validates the machine.Definition.
func (b *Builder) Definition() (*machine.Definition, error) {
	return Interpret(b.node)
}

// MustDefinition builds the machine.Definition, panicking if validation
// fails.
func (b *Builder) MustDefinition() *machine.Definition {
	def, err := b.Definition()
	if err != nil {
		panic(err)
	}
	return def
}

// String renders the definition as canonical DSL text. Parsing the result
// yields a structurally identical node.
func (b *Builder) String() string {
	return Render(b.node)
}

// Render converts a MachineNode to canonical DSL text.
func Render(node *MachineNode) string {
	var s strings.Builder
	s.WriteString(node.Name)
	if node.CommandType != "" || node.ErrorType != "" {
		s.WriteString(", " + node.CommandType + ", " + node.ErrorType)
	}
	s.WriteString("\n\n")
	for _, t := range node.Transitions {
		s.WriteString(t.From + " --(" + t.Event.Name)
		if t.Event.Payload != "" {
			s.WriteString("(" + t.Event.Payload + ")")
		}
		if t.Handler != "" {
			s.WriteString(", " + t.Handler)
		}
		s.WriteString(")--> " + t.To + ";\n")
	}
	return s.String()
}
