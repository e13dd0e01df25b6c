package dsl

// MachineNode represents a parsed state machine definition.
type MachineNode struct {
	Name        string
	CommandType string
	ErrorType   string
	Transitions []*TransitionNode
}

// TransitionNode represents a single parsed transition statement.
type TransitionNode struct {
	From    string
	Event   EventNode
	Handler string // empty means default transition
	To      string
}

// EventNode represents a parsed event shape. An empty Payload means a unit
// event; otherwise the event carries exactly one value of the named type.
type EventNode struct {
	Name    string
	Payload string
}

// key is the structural identity of a transition, used by the parser to
// collapse duplicate statements.
func (t *TransitionNode) key() [4]string {
	return [4]string{t.From, t.Event.Name + "/" + t.Event.Payload, t.Handler, t.To}
}
