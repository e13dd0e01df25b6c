package dsl

import (
	"fmt"
)

const missingNameHint = "I should have seen two identifiers at this point, the state machine " +
	"name, and the name of the initial state for the first transition. " +
	"Did you forget the state machine name?"

// ParseError is the diagnostic produced when the input does not match the
// transition-table grammar. Parsing fails fast: the first structural error
// stops the parse and no partial machine is produced.
type ParseError struct {
	Pos  Pos
	Msg  string
	Hint string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Pos, e.Msg, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser parses transition-table input into a MachineNode.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Pos: p.cur.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expectIdent(what string) (string, error) {
	if p.cur.Type != TokenIdent {
		return "", p.errorf("expected %s, got %s", what, p.cur)
	}
	lit := p.cur.Literal
	p.nextToken()
	return lit, nil
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type != t {
		return p.errorf("expected %s, got %s", t, p.cur)
	}
	p.nextToken()
	return nil
}

// Parse parses the input and returns the machine definition node.
// Duplicate transition statements (same from, event, handler and
// destination) are collapsed, keeping the first occurrence.
func Parse(input string) (*MachineNode, error) {
	p := NewParser(input)
	return p.parseMachine()
}

func (p *Parser) parseMachine() (*MachineNode, error) {
	name, err := p.expectIdent("state machine name")
	if err != nil {
		return nil, err
	}
	node := &MachineNode{Name: name}

	// Optional header tail: `, CommandType, ErrorType`.
	if p.cur.Type == TokenComma {
		p.nextToken()
		if node.CommandType, err = p.expectIdent("command type name"); err != nil {
			return nil, err
		}
		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
		if node.ErrorType, err = p.expectIdent("error type name"); err != nil {
			return nil, err
		}
	}

	seen := make(map[[4]string]bool)
	for p.cur.Type != TokenEOF {
		t, err := p.parseTransition(len(node.Transitions) == 0)
		if err != nil {
			return nil, err
		}
		if !seen[t.key()] {
			seen[t.key()] = true
			node.Transitions = append(node.Transitions, t)
		}
		// Statements are separated by semicolons; the trailing one is
		// optional.
		if p.cur.Type == TokenSemicolon {
			p.nextToken()
			continue
		}
		if p.cur.Type != TokenEOF {
			return nil, p.errorf("expected ';' between transitions, got %s", p.cur)
		}
	}

	return node, nil
}

func (p *Parser) parseTransition(first bool) (*TransitionNode, error) {
	from, err := p.expectIdent("origin state name")
	if err != nil {
		if first {
			pe := err.(*ParseError)
			pe.Hint = missingNameHint
		}
		return nil, err
	}
	t := &TransitionNode{From: from}

	if err := p.parseDashes(); err != nil {
		if first {
			// `Locked --(...)` with no header parses the origin state as the
			// machine name, so the failure surfaces here.
			pe := err.(*ParseError)
			pe.Hint = missingNameHint
		}
		return nil, err
	}
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	if t.Event, err = p.parseEventSpec(); err != nil {
		return nil, err
	}

	// Optional handler name after a comma.
	if p.cur.Type == TokenComma {
		p.nextToken()
		if t.Handler, err = p.expectIdent("handler name"); err != nil {
			return nil, err
		}
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	if err := p.parseDashes(); err != nil {
		return nil, err
	}
	if err := p.expect(TokenGt); err != nil {
		return nil, err
	}

	if t.To, err = p.expectIdent("destination state name"); err != nil {
		return nil, err
	}
	return t, nil
}

// parseDashes consumes one or more '-' tokens. Repeated dashes are cosmetic:
// `--(` and `---(` mean the same thing.
func (p *Parser) parseDashes() error {
	if err := p.expect(TokenDash); err != nil {
		return err
	}
	for p.cur.Type == TokenDash {
		p.nextToken()
	}
	return nil
}

// parseEventSpec parses `Ident` or `Ident(PayloadType)`. Struct-like events
// and payloads with more than one field are grammar errors, not a later
// validation pass.
func (p *Parser) parseEventSpec() (EventNode, error) {
	name, err := p.expectIdent("event name")
	if err != nil {
		return EventNode{}, err
	}
	ev := EventNode{Name: name}

	switch p.cur.Type {
	case TokenLBrace:
		return EventNode{}, p.errorf("struct events are not supported: event %s may carry at most one unnamed payload", name)
	case TokenLParen:
		p.nextToken()
		if ev.Payload, err = p.expectIdent("payload type"); err != nil {
			return EventNode{}, err
		}
		if p.cur.Type == TokenComma {
			return EventNode{}, p.errorf("only payloads with exactly one item are supported: event %s declares more than one", name)
		}
		if err := p.expect(TokenRParen); err != nil {
			return EventNode{}, err
		}
	}
	return ev, nil
}
