// Package codegen synthesizes Go source code from a validated machine
// definition.
//
// The generated file is meant to be emitted into the consumer's package
// before the main build, the way stringer output is checked in next to the
// code that uses it. The consumer supplies one struct type per state, the
// command type named in the DSL header, any payload types, and one method
// per named handler; the generator supplies the state union, the event
// union and the dispatch routine implementing the statemachine contract.
package codegen

import (
	"fmt"
	"strings"

	"github.com/Sushisource/fsmgen/dsl"
	"github.com/Sushisource/fsmgen/machine"
)

// contractImport is the package implementing the runtime contract the
// generated dispatch conforms to.
const contractImport = "github.com/Sushisource/fsmgen/statemachine"

// Options controls code generation.
type Options struct {
	// Package is the name of the package the file is generated into.
	Package string

	// Source optionally names the definition's origin (a file name, for
	// provenance in the generated header).
	Source string
}

// Generate emits a Go source file implementing the given definition.
// Output is deterministic: states and events appear in sorted order,
// transitions within a state in declaration order. Generating the same
// definition twice yields identical text.
func Generate(def *machine.Definition, opts Options) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}
	if opts.Package == "" {
		return "", fmt.Errorf("codegen: package name is required")
	}

	name := def.Name
	stateIface := name + "State"
	eventIface := name + "Event"
	commands := def.CommandType
	if commands == "" {
		commands = "any"
	}
	resultType := fmt.Sprintf("statemachine.TransitionResult[%s, %s]", stateIface, commands)
	invalid := fmt.Sprintf("statemachine.InvalidTransition[%s, %s]()", stateIface, commands)

	var b strings.Builder
	b.WriteString("// Code generated by fsmgen. DO NOT EDIT.\n")
	if opts.Source != "" {
		fmt.Fprintf(&b, "//\n// Source: %s\n", opts.Source)
	}
	fmt.Fprintf(&b, "\npackage %s\n\n", opts.Package)
	fmt.Fprintf(&b, "import (\n\t%q\n)\n\n", contractImport)

	states := def.StateNames()
	events := def.Events()

	// State union: a closed interface over the user-defined state structs.
	fmt.Fprintf(&b, "// %s is implemented by all states of the %s machine.\n", stateIface, name)
	fmt.Fprintf(&b, "// Define one struct per state to carry that state's data.\n")
	fmt.Fprintf(&b, "type %s interface{ is%s() }\n\n", stateIface, stateIface)
	for _, s := range states {
		fmt.Fprintf(&b, "func (%s) is%s() {}\n", s, stateIface)
	}
	b.WriteString("\n")

	// Event union: variant structs are fully generated, the consumer only
	// supplies the payload types.
	fmt.Fprintf(&b, "// %s is implemented by all events accepted by the %s machine.\n", eventIface, name)
	fmt.Fprintf(&b, "type %s interface{ is%s() }\n\n", eventIface, eventIface)
	for _, e := range events {
		if e.IsUnit() {
			fmt.Fprintf(&b, "type %s struct{}\n", e.Name)
		} else {
			fmt.Fprintf(&b, "type %s struct{ Value %s }\n", e.Name, e.Payload)
		}
	}
	b.WriteString("\n")
	for _, e := range events {
		fmt.Fprintf(&b, "func (%s) is%s() {}\n", e.Name, eventIface)
	}
	b.WriteString("\n")

	// Outcome alias keeps handler signatures terse.
	fmt.Fprintf(&b, "// %sTransition is the outcome type returned by %s handlers.\n", name, name)
	fmt.Fprintf(&b, "type %sTransition = %s\n\n", name, resultType)

	// The machine itself.
	fmt.Fprintf(&b, "// %s is a finite state transducer over %s and %s.\n", name, stateIface, eventIface)
	fmt.Fprintf(&b, "// It is a sequential, single-owner value.\n")
	fmt.Fprintf(&b, "type %s struct {\n\tstate %s\n}\n\n", name, stateIface)
	fmt.Fprintf(&b, "// New%s creates a machine in the given initial state.\n", name)
	fmt.Fprintf(&b, "func New%s(initial %s) *%s {\n\treturn &%s{state: initial}\n}\n\n", name, stateIface, name, name)
	fmt.Fprintf(&b, "// State returns the current state.\n")
	fmt.Fprintf(&b, "func (m *%s) State() %s { return m.state }\n\n", name, stateIface)

	// Dispatch.
	fmt.Fprintf(&b, "// OnEvent applies an event to the machine. On success the machine\n")
	fmt.Fprintf(&b, "// advances to the outcome's new state; on an invalid transition or a\n")
	fmt.Fprintf(&b, "// handler error the prior state is preserved unchanged.\n")
	fmt.Fprintf(&b, "func (m *%s) OnEvent(event %s) %sTransition {\n", name, eventIface, name)
	fmt.Fprintf(&b, "\tvar res %sTransition\n", name)

	if machineHasHandlers(def) {
		b.WriteString("\tswitch s := m.state.(type) {\n")
	} else {
		b.WriteString("\tswitch m.state.(type) {\n")
	}
	for _, s := range states {
		group := def.TransitionsFrom(s)
		fmt.Fprintf(&b, "\tcase %s:\n", s)
		if len(group) == 0 {
			fmt.Fprintf(&b, "\t\treturn %s\n", invalid)
			continue
		}
		if groupBindsPayload(group) {
			b.WriteString("\t\tswitch e := event.(type) {\n")
		} else {
			b.WriteString("\t\tswitch event.(type) {\n")
		}
		for _, t := range group {
			fmt.Fprintf(&b, "\t\tcase %s:\n", t.Event.Name)
			switch {
			case t.Handler == "":
				// Default transition: zero commands, zero-value destination.
				fmt.Fprintf(&b, "\t\t\tres = statemachine.Ok[%s, %s](%s{})\n", stateIface, commands, t.To)
			case t.Event.IsUnit():
				fmt.Fprintf(&b, "\t\t\tres = s.%s()\n", exportName(t.Handler))
			default:
				fmt.Fprintf(&b, "\t\t\tres = s.%s(e.Value)\n", exportName(t.Handler))
			}
		}
		fmt.Fprintf(&b, "\t\tdefault:\n\t\t\treturn %s\n\t\t}\n", invalid)
	}
	fmt.Fprintf(&b, "\tdefault:\n\t\treturn %s\n\t}\n", invalid)
	b.WriteString("\tif next, ok := res.NewState(); ok {\n\t\tm.state = next\n\t}\n")
	b.WriteString("\treturn res\n}\n")

	return b.String(), nil
}

// GenerateFromDSL parses DSL input and generates Go code.
func GenerateFromDSL(input string, opts Options) (string, error) {
	def, err := dsl.ParseDefinition(input)
	if err != nil {
		return "", err
	}
	return Generate(def, opts)
}

func machineHasHandlers(def *machine.Definition) bool {
	for _, t := range def.Transitions {
		if t.Handler != "" {
			return true
		}
	}
	return false
}

// groupBindsPayload reports whether dispatching the group needs the event
// value bound, which is the case only when a handler receives a payload.
func groupBindsPayload(group []machine.Transition) bool {
	for _, t := range group {
		if t.Handler != "" && !t.Event.IsUnit() {
			return true
		}
	}
	return false
}

// exportName converts a DSL handler name to an exported Go method name:
// on_card_readable becomes OnCardReadable. Names already in CamelCase pass
// through with the first letter uppercased.
func exportName(handler string) string {
	parts := strings.Split(handler, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
