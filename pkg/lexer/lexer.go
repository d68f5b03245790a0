package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/rhino1998/lox/pkg/diag"
)

// Scan splits source into tokens. Every token stream ends with exactly one
// KindEOF token. Unexpected characters and unterminated strings are reported
// and skipped; the returned error is a *diag.ErrorSet holding all of them.
func Scan(source string, report diag.Reporter) ([]Token, error) {
	l := &lexer{
		source: source,
		line:   1,
		errs:   diag.NewErrorSet(report),
	}

	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{Kind: KindEOF, Line: l.line})

	return l.tokens, l.errs.Err()
}

type lexer struct {
	source string
	tokens []Token

	start   int
	current int
	line    int

	errs *diag.ErrorSet
}

func (l *lexer) scanToken() {
	ch := l.advance()
	switch ch {
	case '(':
		l.addToken(KindLeftParen, nil)
	case ')':
		l.addToken(KindRightParen, nil)
	case '{':
		l.addToken(KindLeftBrace, nil)
	case '}':
		l.addToken(KindRightBrace, nil)
	case ',':
		l.addToken(KindComma, nil)
	case '.':
		l.addToken(KindDot, nil)
	case '-':
		l.addToken(KindMinus, nil)
	case '+':
		l.addToken(KindPlus, nil)
	case ';':
		l.addToken(KindSemicolon, nil)
	case '*':
		l.addToken(KindStar, nil)
	case '!':
		l.addToken(l.pick('=', KindBangEqual, KindBang), nil)
	case '=':
		l.addToken(l.pick('=', KindEqualEqual, KindEqual), nil)
	case '<':
		l.addToken(l.pick('=', KindLessEqual, KindLess), nil)
	case '>':
		l.addToken(l.pick('=', KindGreaterEqual, KindGreater), nil)
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(KindSlash, nil)
		}
	case ' ', '\r', '\t':
	case '\n':
		l.line++
	case '"':
		l.scanString()
	default:
		switch {
		case isDigit(ch):
			l.scanNumber()
		case isAlpha(ch):
			l.scanIdentifier()
		default:
			// skip the whole character, not just its first byte
			r, size := utf8.DecodeRuneInString(l.source[l.start:])
			l.current = l.start + size
			l.errs.Addf(l.line, "", "Unexpected character '%c'", r)
		}
	}
}

func (l *lexer) scanString() {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		l.errs.Addf(l.line, "", "Unterminated string")
		return
	}

	l.advance() // closing '"'

	l.addToken(KindString, l.source[l.start+1:l.current-1])
}

func (l *lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// digits with at most one interior '.' always parse
	value, _ := strconv.ParseFloat(l.source[l.start:l.current], 64)
	l.addToken(KindNumber, value)
}

func (l *lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	kind, ok := keywords[l.source[l.start:l.current]]
	if !ok {
		kind = KindIdentifier
	}

	l.addToken(kind, nil)
}

func (l *lexer) addToken(kind Kind, literal any) {
	l.tokens = append(l.tokens, Token{
		Kind:    kind,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Line:    l.line,
	})
}

func (l *lexer) pick(expected byte, matched, unmatched Kind) Kind {
	if l.match(expected) {
		return matched
	}

	return unmatched
}

func (l *lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}

	l.current++
	return true
}

func (l *lexer) advance() byte {
	ch := l.source[l.current]
	l.current++
	return ch
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
