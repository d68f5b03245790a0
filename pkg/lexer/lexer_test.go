package lexer_test

import (
	"testing"

	"github.com/rhino1998/lox/pkg/diag"
	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestScanOperators(t *testing.T) {
	r := require.New(t)

	tokens, err := lexer.Scan("(){},.-+;*/ ! != = == < <= > >=", nil)
	r.NoError(err)
	r.Equal([]lexer.Kind{
		lexer.KindLeftParen, lexer.KindRightParen,
		lexer.KindLeftBrace, lexer.KindRightBrace,
		lexer.KindComma, lexer.KindDot, lexer.KindMinus, lexer.KindPlus,
		lexer.KindSemicolon, lexer.KindStar, lexer.KindSlash,
		lexer.KindBang, lexer.KindBangEqual,
		lexer.KindEqual, lexer.KindEqualEqual,
		lexer.KindLess, lexer.KindLessEqual,
		lexer.KindGreater, lexer.KindGreaterEqual,
		lexer.KindEOF,
	}, kinds(tokens))
}

func TestScanLexemesAndLines(t *testing.T) {
	r := require.New(t)

	src := "var answer = 42.5;\n// comment only\nprint \"multi\nline\";\n_x1 and breakfast"
	tokens, err := lexer.Scan(src, nil)
	r.NoError(err)

	type want struct {
		kind   lexer.Kind
		lexeme string
		line   int
	}
	expected := []want{
		{lexer.KindVar, "var", 1},
		{lexer.KindIdentifier, "answer", 1},
		{lexer.KindEqual, "=", 1},
		{lexer.KindNumber, "42.5", 1},
		{lexer.KindSemicolon, ";", 1},
		{lexer.KindPrint, "print", 3},
		{lexer.KindString, "\"multi\nline\"", 4},
		{lexer.KindSemicolon, ";", 4},
		{lexer.KindIdentifier, "_x1", 5},
		{lexer.KindAnd, "and", 5},
		{lexer.KindIdentifier, "breakfast", 5},
		{lexer.KindEOF, "", 5},
	}

	r.Len(tokens, len(expected))
	for i, exp := range expected {
		r.Equal(exp.kind, tokens[i].Kind, "token %d", i)
		r.Equal(exp.lexeme, tokens[i].Lexeme, "token %d", i)
		r.Equal(exp.line, tokens[i].Line, "token %d", i)
	}

	r.Equal(42.5, tokens[3].Literal)
	r.Equal("multi\nline", tokens[6].Literal)
}

func TestScanNumbers(t *testing.T) {
	r := require.New(t)

	tokens, err := lexer.Scan("123 4.5 6. .7", nil)
	r.NoError(err)
	r.Equal([]lexer.Kind{
		lexer.KindNumber,
		lexer.KindNumber,
		lexer.KindNumber, lexer.KindDot,
		lexer.KindDot, lexer.KindNumber,
		lexer.KindEOF,
	}, kinds(tokens))
	r.Equal(123.0, tokens[0].Literal)
	r.Equal(4.5, tokens[1].Literal)
	r.Equal(6.0, tokens[2].Literal)
	r.Equal(7.0, tokens[5].Literal)
}

func TestScanKeywords(t *testing.T) {
	r := require.New(t)

	tokens, err := lexer.Scan("and break class else false for fun if nil or print return super this true var while", nil)
	r.NoError(err)
	r.Equal([]lexer.Kind{
		lexer.KindAnd, lexer.KindBreak, lexer.KindClass, lexer.KindElse,
		lexer.KindFalse, lexer.KindFor, lexer.KindFun, lexer.KindIf,
		lexer.KindNil, lexer.KindOr, lexer.KindPrint, lexer.KindReturn,
		lexer.KindSuper, lexer.KindThis, lexer.KindTrue, lexer.KindVar,
		lexer.KindWhile, lexer.KindEOF,
	}, kinds(tokens))
}

func TestScanErrorsDoNotStop(t *testing.T) {
	r := require.New(t)

	var reported []diag.Diagnostic
	tokens, err := lexer.Scan("a @ b\n# c \"open", func(d diag.Diagnostic) {
		reported = append(reported, d)
	})
	r.Error(err)
	r.Equal([]lexer.Kind{
		lexer.KindIdentifier, lexer.KindIdentifier, lexer.KindIdentifier, lexer.KindEOF,
	}, kinds(tokens))

	r.Len(reported, 3)
	r.Equal("[line 1] Error: Unexpected character '@'", reported[0].Error())
	r.Equal("[line 2] Error: Unexpected character '#'", reported[1].Error())
	r.Equal("[line 2] Error: Unterminated string", reported[2].Error())
}

func TestScanReportsMultibyteCharacterOnce(t *testing.T) {
	r := require.New(t)

	var reported []diag.Diagnostic
	tokens, err := lexer.Scan("var é = 1;", func(d diag.Diagnostic) {
		reported = append(reported, d)
	})
	r.Error(err)
	r.Equal([]lexer.Kind{
		lexer.KindVar, lexer.KindEqual, lexer.KindNumber, lexer.KindSemicolon, lexer.KindEOF,
	}, kinds(tokens))

	r.Len(reported, 1)
	r.Equal("[line 1] Error: Unexpected character 'é'", reported[0].Error())
}

func TestScanSingleEOF(t *testing.T) {
	for _, src := range []string{"", "   \n\t ", "x   "} {
		t.Run(src, func(t *testing.T) {
			r := require.New(t)

			tokens, err := lexer.Scan(src, nil)
			r.NoError(err)

			eofs := 0
			for _, tok := range tokens {
				if tok.Kind == lexer.KindEOF {
					eofs++
				}
			}
			r.Equal(1, eofs)
			r.Equal(lexer.KindEOF, tokens[len(tokens)-1].Kind)
			r.Empty(tokens[len(tokens)-1].Lexeme)
		})
	}
}
