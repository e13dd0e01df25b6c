package dsl

import (
	"github.com/Sushisource/fsmgen/machine"
)

// Interpret converts a parsed MachineNode into a validated
// machine.Definition.
func Interpret(node *MachineNode) (*machine.Definition, error) {
	def := &machine.Definition{
		Name:        node.Name,
		CommandType: node.CommandType,
		ErrorType:   node.ErrorType,
	}
	for _, t := range node.Transitions {
		def.Transitions = append(def.Transitions, machine.Transition{
			From:    t.From,
			Event:   machine.EventShape{Name: t.Event.Name, Payload: t.Event.Payload},
			Handler: t.Handler,
			To:      t.To,
		})
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// ParseDefinition parses DSL input and returns a validated
// machine.Definition. This is a convenience function that combines Parse
// and Interpret.
func ParseDefinition(input string) (*machine.Definition, error) {
	node, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return Interpret(node)
}
