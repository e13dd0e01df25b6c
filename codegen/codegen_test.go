package codegen

import (
	"strings"
	"testing"

	"github.com/Sushisource/fsmgen/dsl"
)

const cardReaderSrc = `CardReader, Commands, Infallible

Locked --(CardReadable(CardData), on_card_readable)--> ReadingCard;
ReadingCard --(CardAccepted, on_card_accepted)--> DoorOpen;
ReadingCard --(CardRejected, on_card_rejected)--> Locked;
DoorOpen --(DoorClosed)--> Locked;
`

func generate(t *testing.T, input string, opts Options) string {
	t.Helper()
	code, err := GenerateFromDSL(input, opts)
	if err != nil {
		t.Fatal(err)
	}
	return code
}

func TestGenerateCardReader(t *testing.T) {
	code := generate(t, cardReaderSrc, Options{Package: "cardreader"})

	for _, want := range []string{
		"// Code generated by fsmgen. DO NOT EDIT.",
		"package cardreader",
		`"github.com/Sushisource/fsmgen/statemachine"`,
		"type CardReaderState interface{ isCardReaderState() }",
		"func (Locked) isCardReaderState() {}",
		"func (ReadingCard) isCardReaderState() {}",
		"func (DoorOpen) isCardReaderState() {}",
		"type CardReaderEvent interface{ isCardReaderEvent() }",
		"type CardReadable struct{ Value CardData }",
		"type CardAccepted struct{}",
		"type CardReaderTransition = statemachine.TransitionResult[CardReaderState, Commands]",
		"func NewCardReader(initial CardReaderState) *CardReader {",
		"func (m *CardReader) OnEvent(event CardReaderEvent) CardReaderTransition {",
		"res = s.OnCardReadable(e.Value)",
		"res = s.OnCardAccepted()",
		"res = s.OnCardRejected()",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code missing %q", want)
		}
	}
}

func TestGenerateDefaultTransition(t *testing.T) {
	code := generate(t, cardReaderSrc, Options{Package: "cardreader"})

	// DoorClosed has no handler: the dispatch constructs the destination's
	// zero value directly and emits no commands.
	if !strings.Contains(code, "res = statemachine.Ok[CardReaderState, Commands](Locked{})") {
		t.Error("default transition not inlined as zero-value construction")
	}
}

func TestGenerateUnitOnlyGroupOmitsEventBinding(t *testing.T) {
	code := generate(t, cardReaderSrc, Options{Package: "cardreader"})

	// ReadingCard's handlers take no payload, so that inner switch must not
	// bind the event variable (it would be unused and fail to compile).
	idx := strings.Index(code, "case ReadingCard:")
	if idx < 0 {
		t.Fatal("no ReadingCard case")
	}
	tail := code[idx:]
	if !strings.Contains(tail[:strings.Index(tail, "case CardAccepted:")], "switch event.(type) {") {
		t.Error("ReadingCard group binds the event value without using it")
	}

	// Locked's handler takes the payload, so its switch binds e.
	idx = strings.Index(code, "case Locked:")
	if idx < 0 {
		t.Fatal("no Locked case")
	}
	tail = code[idx:]
	if !strings.Contains(tail[:strings.Index(tail, "case CardReadable:")], "switch e := event.(type) {") {
		t.Error("Locked group does not bind the event value for the payload handler")
	}
}

func TestGenerateHandlerlessMachineOmitsStateBinding(t *testing.T) {
	code := generate(t, `Light
Off --(Toggle)--> On;
On --(Toggle)--> Off;
`, Options{Package: "light"})

	if strings.Contains(code, "switch s := m.state.(type)") {
		t.Error("machine without handlers binds the state value without using it")
	}
	if !strings.Contains(code, "switch m.state.(type) {") {
		t.Error("missing state switch")
	}
	// No command type in the header defaults to any.
	if !strings.Contains(code, "statemachine.TransitionResult[LightState, any]") {
		t.Error("missing any-typed transition alias")
	}
}

func TestGenerateTerminalStateRejectsAllEvents(t *testing.T) {
	code := generate(t, `M
A --(Go)--> Done;
`, Options{Package: "m"})

	idx := strings.Index(code, "case Done:")
	if idx < 0 {
		t.Fatal("no case for terminal state Done")
	}
	tail := code[idx:]
	if !strings.Contains(tail[:strings.Index(tail, "default:")], "return statemachine.InvalidTransition[MState, any]()") {
		t.Error("terminal state does not return an invalid transition")
	}
}

func TestGenerateSourceHeader(t *testing.T) {
	code := generate(t, cardReaderSrc, Options{Package: "cardreader", Source: "cardreader.fsm"})
	if !strings.Contains(code, "// Source: cardreader.fsm") {
		t.Error("missing source provenance line")
	}
}

func TestGenerateRequiresPackage(t *testing.T) {
	if _, err := GenerateFromDSL(cardReaderSrc, Options{}); err == nil {
		t.Error("expected error for missing package name")
	}
}

func TestGenerateRejectsConflicts(t *testing.T) {
	_, err := GenerateFromDSL(`M
A --(E)--> B;
A --(E)--> C;
`, Options{Package: "m"})
	if err == nil {
		t.Error("expected validation error")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := generate(t, cardReaderSrc, Options{Package: "cardreader"})
	b := generate(t, cardReaderSrc, Options{Package: "cardreader"})
	if a != b {
		t.Error("two generations of the same definition differ")
	}
}

func TestExportName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"on_card_readable", "OnCardReadable"},
		{"on_schedule", "OnSchedule"},
		{"alreadyCamel", "AlreadyCamel"},
		{"x", "X"},
	}
	for _, tc := range cases {
		if got := exportName(tc.in); got != tc.want {
			t.Errorf("exportName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateDOT(t *testing.T) {
	def, err := dsl.ParseDefinition(cardReaderSrc)
	if err != nil {
		t.Fatal(err)
	}
	dot := GenerateDOT(def)

	for _, want := range []string{
		"digraph CardReader {",
		"rankdir=LR;",
		`"Locked";`,
		`"Locked" -> "ReadingCard" [label="CardReadable(CardData) / on_card_readable"];`,
		`"DoorOpen" -> "Locked" [label="DoorClosed"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}
