package lexer

import "fmt"

// Kind represents the type of token identified by the lexer.
type Kind uint8

const (
	KindEOF Kind = iota

	// single character
	KindLeftParen
	KindRightParen
	KindLeftBrace
	KindRightBrace
	KindComma
	KindDot
	KindMinus
	KindPlus
	KindSemicolon
	KindSlash
	KindStar

	// one or two characters
	KindBang
	KindBangEqual
	KindEqual
	KindEqualEqual
	KindGreater
	KindGreaterEqual
	KindLess
	KindLessEqual

	// literals
	KindIdentifier
	KindString
	KindNumber

	// keywords
	KindAnd
	KindBreak
	KindClass
	KindElse
	KindFalse
	KindFor
	KindFun
	KindIf
	KindNil
	KindOr
	KindPrint
	KindReturn
	KindSuper
	KindThis
	KindTrue
	KindVar
	KindWhile
)

var kindNames = [...]string{
	KindEOF:          "EOF",
	KindLeftParen:    "LEFT_PAREN",
	KindRightParen:   "RIGHT_PAREN",
	KindLeftBrace:    "LEFT_BRACE",
	KindRightBrace:   "RIGHT_BRACE",
	KindComma:        "COMMA",
	KindDot:          "DOT",
	KindMinus:        "MINUS",
	KindPlus:         "PLUS",
	KindSemicolon:    "SEMICOLON",
	KindSlash:        "SLASH",
	KindStar:         "STAR",
	KindBang:         "BANG",
	KindBangEqual:    "BANG_EQUAL",
	KindEqual:        "EQUAL",
	KindEqualEqual:   "EQUAL_EQUAL",
	KindGreater:      "GREATER",
	KindGreaterEqual: "GREATER_EQUAL",
	KindLess:         "LESS",
	KindLessEqual:    "LESS_EQUAL",
	KindIdentifier:   "IDENTIFIER",
	KindString:       "STRING",
	KindNumber:       "NUMBER",
	KindAnd:          "AND",
	KindBreak:        "BREAK",
	KindClass:        "CLASS",
	KindElse:         "ELSE",
	KindFalse:        "FALSE",
	KindFor:          "FOR",
	KindFun:          "FUN",
	KindIf:           "IF",
	KindNil:          "NIL",
	KindOr:           "OR",
	KindPrint:        "PRINT",
	KindReturn:       "RETURN",
	KindSuper:        "SUPER",
	KindThis:         "THIS",
	KindTrue:         "TRUE",
	KindVar:          "VAR",
	KindWhile:        "WHILE",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", k)
}

var keywords = map[string]Kind{
	"and":    KindAnd,
	"break":  KindBreak,
	"class":  KindClass,
	"else":   KindElse,
	"false":  KindFalse,
	"for":    KindFor,
	"fun":    KindFun,
	"if":     KindIf,
	"nil":    KindNil,
	"or":     KindOr,
	"print":  KindPrint,
	"return": KindReturn,
	"super":  KindSuper,
	"this":   KindThis,
	"true":   KindTrue,
	"var":    KindVar,
	"while":  KindWhile,
}

// Token is a lexical unit. Literal holds the dequoted string for KindString
// and the float64 value for KindNumber; it is nil otherwise.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %v", t.Kind, t.Lexeme, t.Literal)
	}

	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}
