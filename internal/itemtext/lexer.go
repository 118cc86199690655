// Package itemtext parses the loosely-structured line-item text embedded in
// raw order rows. The feed mixes single and double quotes and leaves object
// keys unquoted, so instead of repairing the text into JSON the package
// tokenizes it against a small fixed grammar: lists, objects, quoted
// strings, bare identifiers and integer/decimal numbers.
package itemtext

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLBracket
	tokenRBracket
	tokenLBrace
	tokenRBrace
	tokenColon
	tokenComma
	tokenString
	tokenNumber
	tokenIdent
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	case tokenColon:
		return "':'"
	case tokenComma:
		return "','"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenIdent:
		return "identifier"
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// SyntaxError reports the first offense in the input together with its
// byte offset
type SyntaxError struct {
	Pos     int
	Message string
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Message)
}

type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) errorf(pos int, format string, v ...interface{}) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, v...)}
}

// next returns the next token of the input
func (l *lexer) next() (token, error) {
	l.skipSpace()

	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]

	switch c {
	case '[':
		l.pos++
		return token{kind: tokenLBracket, text: "[", pos: start}, nil
	case ']':
		l.pos++
		return token{kind: tokenRBracket, text: "]", pos: start}, nil
	case '{':
		l.pos++
		return token{kind: tokenLBrace, text: "{", pos: start}, nil
	case '}':
		l.pos++
		return token{kind: tokenRBrace, text: "}", pos: start}, nil
	case ':':
		l.pos++
		return token{kind: tokenColon, text: ":", pos: start}, nil
	case ',':
		l.pos++
		return token{kind: tokenComma, text: ",", pos: start}, nil
	case '\'', '"':
		return l.lexString()
	}

	if c == '-' || (c >= '0' && c <= '9') {
		return l.lexNumber()
	}
	if isIdentStart(rune(c)) {
		return l.lexIdent()
	}

	return token{}, l.errorf(start, "unexpected character %q", c)
}

// lexString consumes a quoted string; the opening quote character (single
// or double) also terminates it, and a backslash escapes the following
// character
func (l *lexer) lexString() (token, error) {
	start := l.pos
	quote := l.input[l.pos]
	l.pos++

	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case '\\':
			if l.pos+1 >= len(l.input) {
				return token{}, l.errorf(l.pos, "unterminated escape sequence")
			}
			b.WriteByte(l.input[l.pos+1])
			l.pos += 2
		case quote:
			l.pos++
			return token{kind: tokenString, text: b.String(), pos: start}, nil
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, l.errorf(start, "unterminated string")
}

// lexNumber consumes an integer or decimal number
func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}

	digits := 0
	for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
		l.pos++
		digits++
	}
	if digits == 0 {
		return token{}, l.errorf(start, "malformed number")
	}

	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		digits = 0
		for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
			l.pos++
			digits++
		}
		if digits == 0 {
			return token{}, l.errorf(start, "malformed number")
		}
	}

	return token{kind: tokenNumber, text: l.input[start:l.pos], pos: start}, nil
}

// lexIdent consumes a bare identifier (unquoted key or scalar)
func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(rune(l.input[l.pos])) {
		l.pos++
	}
	return token{kind: tokenIdent, text: l.input[start:l.pos], pos: start}, nil
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
