package algebra

import (
	"strings"
	"unicode"
)

// ============================================================================
// LEXER — tokenises one algebra expression
// ============================================================================
// The input is generator output: short, single-line, Python-flavoured.
// The scanner is forgiving where the flavour demands it (underscored
// numbers, both quote styles, escaped regex patterns) and strict
// everywhere else — anything outside the token set comes back Illegal and
// fails the parse.
// ============================================================================

// Lexer scans an expression string.
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer initialises a lexer over the expression text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Next returns the next token from the stream.
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Type: EOF}
	}

	ch := l.input[l.pos]
	switch ch {
	case ',':
		l.pos++
		return Token{Type: Comma, Literal: ","}
	case '.':
		l.pos++
		return Token{Type: Dot, Literal: "."}
	case '(':
		l.pos++
		return Token{Type: LParen, Literal: "("}
	case ')':
		l.pos++
		return Token{Type: RParen, Literal: ")"}
	case '[':
		l.pos++
		return Token{Type: LBracket, Literal: "["}
	case ']':
		l.pos++
		return Token{Type: RBracket, Literal: "]"}
	case '+':
		l.pos++
		return Token{Type: Plus, Literal: "+"}
	case '-':
		l.pos++
		return Token{Type: Minus, Literal: "-"}
	case '*':
		l.pos++
		return Token{Type: Star, Literal: "*"}
	case '/':
		l.pos++
		return Token{Type: Slash, Literal: "/"}
	case '&':
		l.pos++
		return Token{Type: Amp, Literal: "&"}
	case '|':
		l.pos++
		return Token{Type: Pipe, Literal: "|"}
	case '~':
		l.pos++
		return Token{Type: Tilde, Literal: "~"}
	case '=':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: Eq, Literal: "=="}
		}
		return Token{Type: Assign, Literal: "="}
	case '!':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: NotEq, Literal: "!="}
		}
		return Token{Type: Illegal, Literal: "!"}
	case '<':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: LessEq, Literal: "<="}
		}
		return Token{Type: Less, Literal: "<"}
	case '>':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: GreaterEq, Literal: ">="}
		}
		return Token{Type: Greater, Literal: ">"}
	case '\'', '"':
		return l.scanString(ch)
	}

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdentifier()
	}
	if unicode.IsDigit(ch) {
		return l.scanNumber()
	}

	l.pos++
	return Token{Type: Illegal, Literal: string(ch)}
}

func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			l.pos++
			continue
		}
		break
	}
	return Token{Type: Ident, Literal: string(l.input[start:l.pos])}
}

// scanNumber accepts digits with at most one decimal point; underscore
// separators (500_000) are tolerated and dropped.
func (l *Lexer) scanNumber() Token {
	var b strings.Builder
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case unicode.IsDigit(ch):
			b.WriteRune(ch)
			l.pos++
		case ch == '_':
			l.pos++
		case ch == '.' && !seenDot && l.pos+1 < len(l.input) && unicode.IsDigit(l.input[l.pos+1]):
			seenDot = true
			b.WriteRune(ch)
			l.pos++
		default:
			return Token{Type: Number, Literal: b.String()}
		}
	}
	return Token{Type: Number, Literal: b.String()}
}

// scanString reads a quoted literal. Recognised escapes are processed;
// unrecognised ones keep their backslash so regex patterns like '\d+'
// survive intact.
func (l *Lexer) scanString(quote rune) Token {
	l.pos++
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			l.pos++
			return Token{Type: String, Literal: b.String()}
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			switch next {
			case '\\', '\'', '"':
				b.WriteRune(next)
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune('\\')
				b.WriteRune(next)
			}
			l.pos += 2
			continue
		}
		b.WriteRune(ch)
		l.pos++
	}
	return Token{Type: Illegal, Literal: "unterminated string literal"}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		if unicode.IsSpace(l.input[l.pos]) {
			l.pos++
			continue
		}
		break
	}
}
