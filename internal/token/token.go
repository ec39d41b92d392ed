// Package token implements the lexer for the foreign block-diagram format:
// a brace-delimited nested key/value text. The scan is lossless with respect
// to structure but discards whitespace and end-of-line comments; it never
// fails, so malformed input surfaces later as a structural error rather than
// a lex error.
package token

import (
	"fmt"
	"unicode"
)

// Type classifies a lexical token.
type Type int

const (
	// EOF marks the end of the token stream.
	EOF Type = iota
	// LBrace is a single '{'.
	LBrace
	// RBrace is a single '}'.
	RBrace
	// Str is a double-quoted string, kept verbatim including the quotes and
	// any escaped quote sequences.
	Str
	// Array is a bracketed numeric/string array captured as one atomic unit,
	// brackets included, honoring nested brackets.
	Array
	// Bare is any other run of characters free of whitespace, braces,
	// quotes, and brackets: identifiers, numbers, keywords.
	Bare
)

// String returns a human-readable name for the token type.
func (t Type) String() string {
	switch t {
	case EOF:
		return "EOF"
	case LBrace:
		return "LBRACE"
	case RBrace:
		return "RBRACE"
	case Str:
		return "STRING"
	case Array:
		return "ARRAY"
	case Bare:
		return "BARE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Token is a single lexical unit with its source location.
type Token struct {
	Type  Type
	Value string
	Line  int
	Col   int
}

// commentMarker starts an end-of-line comment.
const commentMarker = '%'

// lexer holds the state of the scanner.
type lexer struct {
	input  []rune
	pos    int
	line   int
	col    int
	tokens []Token
}

// Scan tokenizes the full input text left to right. The resulting slice
// always ends with an EOF token and can be re-walked from the start any
// number of times.
func Scan(input string) []Token {
	l := &lexer{
		input:  []rune(input),
		pos:    0,
		line:   1,
		col:    1,
		tokens: make([]Token, 0, 64),
	}
	l.scan()
	return l.tokens
}

func (l *lexer) scan() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if unicode.IsSpace(ch) {
			l.advance()
			continue
		}

		if ch == commentMarker {
			l.skipLineComment()
			continue
		}

		switch {
		case ch == '{':
			l.emit(LBrace, "{")
			l.advance()
		case ch == '}':
			l.emit(RBrace, "}")
			l.advance()
		case ch == '"':
			l.lexString()
		case ch == '[':
			l.lexArray()
		default:
			l.lexBare()
		}
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
}

// advance moves one character forward, tracking line and column.
func (l *lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) emit(typ Type, value string) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Line: l.line, Col: l.col})
}

// skipLineComment drops everything from the marker to end of line.
func (l *lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
}

// lexString reads a double-quoted string. Escaped quotes stay in the token
// verbatim; the surrounding quotes are part of the token value so the tree
// parser can tell quoted scalars from bare ones.
func (l *lexer) lexString() {
	startLine, startCol := l.line, l.col
	var out []rune
	out = append(out, '"')
	l.advance() // opening quote

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			out = append(out, ch, l.input[l.pos+1])
			l.advance()
			l.advance()
			continue
		}
		if ch == '"' {
			out = append(out, '"')
			l.advance()
			break
		}
		out = append(out, ch)
		l.advance()
	}
	l.tokens = append(l.tokens, Token{Type: Str, Value: string(out), Line: startLine, Col: startCol})
}

// lexArray accumulates a bracket-counted run from '[' to its matching ']'
// into one token. Unbalanced brackets simply consume to end of input.
func (l *lexer) lexArray() {
	startLine, startCol := l.line, l.col
	depth := 0
	var out []rune

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		out = append(out, ch)
		if ch == '[' {
			depth++
		} else if ch == ']' {
			depth--
			if depth == 0 {
				l.advance()
				break
			}
		}
		l.advance()
	}
	l.tokens = append(l.tokens, Token{Type: Array, Value: string(out), Line: startLine, Col: startCol})
}

// lexBare reads a run of characters up to the next whitespace, brace, quote,
// or bracket.
func (l *lexer) lexBare() {
	startLine, startCol := l.line, l.col
	var out []rune

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsSpace(ch) || ch == '{' || ch == '}' || ch == '"' || ch == '[' || ch == commentMarker {
			break
		}
		out = append(out, ch)
		l.advance()
	}
	l.tokens = append(l.tokens, Token{Type: Bare, Value: string(out), Line: startLine, Col: startCol})
}
