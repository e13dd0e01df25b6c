// Package dsl implements the transition-table language accepted by the
// fsmgen compiler.
//
// A definition is an optional header line naming the machine (and,
// optionally, its command and error types) followed by semicolon-separated
// transition statements:
//
//	CardReader, Commands, Infallible
//
//	Locked --(CardReadable(CardData), on_card_readable)--> ReadingCard;
//	ReadingCard --(CardAccepted, on_card_accepted)--> DoorOpen;
//	ReadingCard --(CardRejected, on_card_rejected)--> Locked;
//	DoorOpen --(DoorClosed)--> Locked;
//
// One or more dashes are accepted on both sides of the arrow. An event is
// either a bare identifier (unit event) or carries exactly one payload type
// in parentheses. The trailing identifier after the comma names the handler;
// without one the transition is a default transition into the destination
// state's zero value.
package dsl

import (
	"fmt"
	"unicode"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent     // Locked, on_card_readable, CardData
	TokenDash      // -
	TokenGt        // >
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // { (only ever illegal, kept for diagnostics)
	TokenComma     // ,
	TokenSemicolon // ;
	TokenIllegal
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenDash:
		return "'-'"
	case TokenGt:
		return "'>'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBrace:
		return "'{'"
	case TokenComma:
		return "','"
	case TokenSemicolon:
		return "';'"
	default:
		return "illegal token"
	}
}

// Pos is a position within the DSL source, 1-based.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Col)
}

// Token represents a single token from the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Pos
}

func (t Token) String() string {
	if t.Type == TokenIdent {
		return fmt.Sprintf("identifier %q", t.Literal)
	}
	return t.Type.String()
}

// Lexer tokenizes transition-table input.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	line    int
	col     int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	// Skip from // to end of line
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipComment()
			continue
		}
		break
	}

	pos := Pos{Line: l.line, Col: l.col}
	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Pos: pos}
	case '-':
		tok = Token{Type: TokenDash, Literal: "-", Pos: pos}
		l.readChar()
	case '>':
		tok = Token{Type: TokenGt, Literal: ">", Pos: pos}
		l.readChar()
	case '(':
		tok = Token{Type: TokenLParen, Literal: "(", Pos: pos}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRParen, Literal: ")", Pos: pos}
		l.readChar()
	case '{':
		tok = Token{Type: TokenLBrace, Literal: "{", Pos: pos}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Literal: ",", Pos: pos}
		l.readChar()
	case ';':
		tok = Token{Type: TokenSemicolon, Literal: ";", Pos: pos}
		l.readChar()
	default:
		if isIdentStart(l.ch) {
			return Token{Type: TokenIdent, Literal: l.readIdent(), Pos: pos}
		}
		tok = Token{Type: TokenIllegal, Literal: string(l.ch), Pos: pos}
		l.readChar()
	}

	return tok
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isIdentStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

// Identifier continuation also admits '.' so payload types may be qualified
// (e.g. wire.CardData).
func isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_' || ch == '.'
}

// Tokenize returns all tokens from the input, ending with TokenEOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens
}
