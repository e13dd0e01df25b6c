package dsl

import (
	"strings"
	"testing"
)

const cardReaderSrc = `CardReader, Commands, Infallible

Locked --(CardReadable(CardData), on_card_readable)--> ReadingCard;
ReadingCard --(CardAccepted, on_card_accepted)--> DoorOpen;
ReadingCard --(CardRejected, on_card_rejected)--> Locked;
DoorOpen --(DoorClosed)--> Locked;
`

func TestParseFullHeader(t *testing.T) {
	node, err := Parse(cardReaderSrc)
	if err != nil {
		t.Fatal(err)
	}
	if node.Name != "CardReader" {
		t.Errorf("Name = %q, want CardReader", node.Name)
	}
	if node.CommandType != "Commands" {
		t.Errorf("CommandType = %q, want Commands", node.CommandType)
	}
	if node.ErrorType != "Infallible" {
		t.Errorf("ErrorType = %q, want Infallible", node.ErrorType)
	}
	if len(node.Transitions) != 4 {
		t.Fatalf("got %d transitions, want 4", len(node.Transitions))
	}

	first := node.Transitions[0]
	if first.From != "Locked" || first.To != "ReadingCard" {
		t.Errorf("first transition %s -> %s", first.From, first.To)
	}
	if first.Event.Name != "CardReadable" || first.Event.Payload != "CardData" {
		t.Errorf("first event = %+v", first.Event)
	}
	if first.Handler != "on_card_readable" {
		t.Errorf("first handler = %q", first.Handler)
	}

	last := node.Transitions[3]
	if last.Handler != "" {
		t.Errorf("DoorClosed handler = %q, want default transition", last.Handler)
	}
	if last.Event.Payload != "" {
		t.Errorf("DoorClosed event carries payload %q", last.Event.Payload)
	}
}

func TestParseNameOnlyHeader(t *testing.T) {
	node, err := Parse(`Simple
A --(E)--> B;`)
	if err != nil {
		t.Fatal(err)
	}
	if node.Name != "Simple" || node.CommandType != "" || node.ErrorType != "" {
		t.Errorf("header = %q/%q/%q", node.Name, node.CommandType, node.ErrorType)
	}
}

func TestParseMissingNameHint(t *testing.T) {
	// Without a header the origin state is swallowed as the machine name,
	// so the first transition fails and carries the hint.
	_, err := Parse(`Locked --(CardReadable, handler)--> ReadingCard;`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "Did you forget the state machine name?") {
		t.Errorf("error missing hint: %v", err)
	}
}

func TestParseHintOnlyOnFirstTransition(t *testing.T) {
	_, err := Parse(`Machine
A --(E)--> B;
C ==> D;`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if strings.Contains(err.Error(), "Did you forget") {
		t.Errorf("hint attached past the first transition: %v", err)
	}
}

func TestParseDashCounts(t *testing.T) {
	for _, src := range []string{
		"M\nA -(E)-> B;",
		"M\nA --(E)--> B;",
		"M\nA ---(E)----> B;",
	} {
		node, err := Parse(src)
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		if len(node.Transitions) != 1 {
			t.Errorf("%q: %d transitions", src, len(node.Transitions))
		}
	}
}

func TestParseStructEventRejected(t *testing.T) {
	_, err := Parse(`M
A --(E{x: u32}, handler)--> B;`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "struct events are not supported") {
		t.Errorf("error = %v", err)
	}
}

func TestParseMultiPayloadRejected(t *testing.T) {
	_, err := Parse(`M
A --(E(Foo, Bar), handler)--> B;`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "exactly one item") {
		t.Errorf("error = %v", err)
	}
}

func TestParseTrailingSemicolonOptional(t *testing.T) {
	node, err := Parse(`M
A --(E)--> B;
B --(F)--> A`)
	if err != nil {
		t.Fatal(err)
	}
	if len(node.Transitions) != 2 {
		t.Errorf("got %d transitions, want 2", len(node.Transitions))
	}
}

func TestParseMissingSemicolonBetweenTransitions(t *testing.T) {
	_, err := Parse(`M
A --(E)--> B
B --(F)--> A;`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "';'") {
		t.Errorf("error = %v", err)
	}
}

func TestParseCollapsesDuplicates(t *testing.T) {
	node, err := Parse(`M
A --(E, h)--> B;
A --(E, h)--> B;
A --(F)--> B;`)
	if err != nil {
		t.Fatal(err)
	}
	if len(node.Transitions) != 2 {
		t.Fatalf("got %d transitions, want 2 after dedup", len(node.Transitions))
	}
	if node.Transitions[0].Event.Name != "E" || node.Transitions[1].Event.Name != "F" {
		t.Errorf("declaration order lost: %v, %v",
			node.Transitions[0].Event.Name, node.Transitions[1].Event.Name)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse(`M
A --(E)--> ;`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if pe.Pos.Line != 2 {
		t.Errorf("error at line %d, want 2", pe.Pos.Line)
	}
	if !strings.Contains(pe.Msg, "destination state name") {
		t.Errorf("msg = %q", pe.Msg)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	node, err := Parse(cardReaderSrc)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(Render(node))
	if err != nil {
		t.Fatalf("rendered text does not reparse: %v", err)
	}
	if Render(again) != Render(node) {
		t.Error("render is not a fixed point")
	}
}

func TestBuilderMatchesParsedText(t *testing.T) {
	built := Build("CardReader").Commands("Commands").Errors("Infallible").
		From("Locked").OnPayload("CardReadable", "CardData").Handle("on_card_readable").To("ReadingCard").
		From("ReadingCard").On("CardAccepted").Handle("on_card_accepted").To("DoorOpen").
		From("ReadingCard").On("CardRejected").Handle("on_card_rejected").To("Locked").
		From("DoorOpen").On("DoorClosed").To("Locked")

	parsed, err := Parse(cardReaderSrc)
	if err != nil {
		t.Fatal(err)
	}
	if built.String() != Render(parsed) {
		t.Errorf("builder output differs from parsed text:\n%s\n---\n%s", built.String(), Render(parsed))
	}

	if _, err := built.Definition(); err != nil {
		t.Fatalf("builder definition invalid: %v", err)
	}
}

func TestParseDefinitionValidates(t *testing.T) {
	// Same origin and event with different destinations is a conflict.
	_, err := ParseDefinition(`M
A --(E)--> B;
A --(E)--> C;`)
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	if !strings.Contains(err.Error(), "conflict") {
		t.Errorf("error = %v", err)
	}
}
