package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rhino1998/lox/pkg/diag"
	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ([]parser.Statement, []diag.Diagnostic, error) {
	t.Helper()

	tokens, err := lexer.Scan(src, nil)
	require.NoError(t, err)

	var reported []diag.Diagnostic
	stmts, err := parser.Parse(tokens, func(d diag.Diagnostic) {
		reported = append(reported, d)
	})

	return stmts, reported, err
}

func parseExpr(t *testing.T, src string) parser.Expr {
	t.Helper()

	stmts, _, err := parse(t, src+";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	stmt, ok := stmts[0].(*parser.ExprStatement)
	require.True(t, ok, "expected expression statement, got %T", stmts[0])

	return stmt.Expr
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"2 + 3 * 4", "(+ 2 (* 3 4))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"(2 + 3) * 4", "(* (group (+ 2 3)) 4)"},
		{"-a * !b", "(* (- a) (! b))"},
		{"1 < 2 == 3 >= 4", "(== (< 1 2) (>= 3 4))"},
		{"a != b", "(!= a b)"},
		{"a or b and c", "(or a (and b c))"},
		{"a = b = 3", "(= a (= b 3))"},
		{"a.b.c = f(1, \"x\")(nil)", "(= . c (. b a) (call (call f 1 \"x\") nil))"},
		{"this.x", "(. x this)"},
		{"--1", "(- (- 1))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			require.Equal(t, tt.expected, parser.Print(parseExpr(t, tt.src)))
		})
	}
}

func TestForDesugars(t *testing.T) {
	r := require.New(t)

	stmts, _, err := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	r.NoError(err)
	r.Len(stmts, 1)

	outer, ok := stmts[0].(*parser.BlockStatement)
	r.True(ok)
	r.Len(outer.Body, 2)
	r.IsType(&parser.VarStatement{}, outer.Body[0])

	loop, ok := outer.Body[1].(*parser.WhileStatement)
	r.True(ok)
	r.Equal("(< i 3)", parser.Print(loop.Condition))

	body, ok := loop.Body.(*parser.BlockStatement)
	r.True(ok)
	r.Len(body.Body, 2)
	r.IsType(&parser.PrintStatement{}, body.Body[0])

	incr, ok := body.Body[1].(*parser.ExprStatement)
	r.True(ok)
	r.Equal("(= i (+ i 1))", parser.Print(incr.Expr))
}

func TestForWithoutClauses(t *testing.T) {
	r := require.New(t)

	stmts, _, err := parse(t, "for (;;) break;")
	r.NoError(err)
	r.Len(stmts, 1)

	loop, ok := stmts[0].(*parser.WhileStatement)
	r.True(ok)
	r.Equal("true", parser.Print(loop.Condition))
	r.IsType(&parser.BreakStatement{}, loop.Body)
}

func TestDeclarations(t *testing.T) {
	r := require.New(t)

	stmts, _, err := parse(t, `
class Point {
  init(x, y) { this.x = x; this.y = y; }
  sum() { return this.x + this.y; }
}
fun noop() { return; }
var empty;
if (true) print 1; else print 2;
while (false) {}
`)
	r.NoError(err)
	r.Len(stmts, 5)

	class := stmts[0].(*parser.ClassStatement)
	r.Equal("Point", class.Name.Lexeme)
	r.Len(class.Methods, 2)
	r.Equal("init", class.Methods[0].Name.Lexeme)
	r.Len(class.Methods[0].Parameters, 2)

	fn := stmts[1].(*parser.FunctionStatement)
	r.Len(fn.Body, 1)
	r.Nil(fn.Body[0].(*parser.ReturnStatement).Value)

	r.Nil(stmts[2].(*parser.VarStatement).Initializer)
	r.NotNil(stmts[3].(*parser.IfStatement).Else)
	r.IsType(&parser.WhileStatement{}, stmts[4])
}

func TestErrorsAccumulate(t *testing.T) {
	r := require.New(t)

	stmts, reported, err := parse(t, `var a = 1
var b = 2;
print a
print b;
var c = 3
print c;
print "ok";
`)
	r.Error(err)
	r.Len(reported, 3)
	r.Equal("[line 2] Error at 'var': Expect ';' after variable declaration.", reported[0].Error())
	r.Equal("[line 4] Error at 'print': Expect ';' after value.", reported[1].Error())
	r.Equal("[line 6] Error at 'print': Expect ';' after variable declaration.", reported[2].Error())

	// the statement after the last error still parses
	r.NotEmpty(stmts)
	r.IsType(&parser.PrintStatement{}, stmts[len(stmts)-1])
}

func TestErrorAtEnd(t *testing.T) {
	r := require.New(t)

	_, reported, err := parse(t, "print 1")
	r.Error(err)
	r.Len(reported, 1)
	r.Equal("[line 1] Error at end: Expect ';' after value.", reported[0].Error())
}

func TestInvalidAssignmentTargetIsNotFatal(t *testing.T) {
	r := require.New(t)

	stmts, reported, err := parse(t, "1 + 2 = 3; print 4;")
	r.Error(err)
	r.Len(reported, 1)
	r.Equal("[line 1] Error at '=': Invalid assignment target.", reported[0].Error())
	r.Len(stmts, 2)
}

func TestArityLimits(t *testing.T) {
	r := require.New(t)

	params := make([]string, parser.MaxArity+1)
	args := make([]string, parser.MaxArity+1)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
		args[i] = "1"
	}

	src := "fun f(" + strings.Join(params, ", ") + ") {}\nf(" + strings.Join(args, ", ") + ");"
	stmts, reported, err := parse(t, src)
	r.Error(err)
	r.Len(stmts, 2)
	r.Len(reported, 2)
	r.Equal("Can't have more than 255 parameters.", reported[0].Message)
	r.Equal("Can't have more than 255 arguments.", reported[1].Message)
	r.Equal(2, reported[1].Line)
}

func TestPrintProgram(t *testing.T) {
	r := require.New(t)

	stmts, _, err := parse(t, `
var a;
var b = 1 + 2;
a = b;
print a;
fun add(x, y) { return x + y; }
fun noop() { return; }
class Point { init(x) { this.x = x; } }
if (a) print a; else { break; }
for (var i = 0; i < 2; i = i + 1) print i;
`)
	r.NoError(err)

	r.Equal(strings.Join([]string{
		"(var a)",
		"(var b (+ 1 2))",
		"(= a b)",
		"(print a)",
		"(fun add (x y) (return (+ x y)))",
		"(fun noop () (return))",
		"(class Point (fun init (x) (= . x this x)))",
		"(if a (print a) (block (break)))",
		"(block (var i 0) (while (< i 2) (block (print i) (= i (+ i 1)))))",
		"",
	}, "\n"), parser.PrintProgram(stmts))
}
