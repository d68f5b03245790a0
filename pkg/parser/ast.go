package parser

import "github.com/rhino1998/lox/pkg/lexer"

// Expr is implemented by every expression node. Nodes are always handled by
// pointer so that their identity can key side tables such as resolver
// bindings.
type Expr interface {
	expr()
}

type AssignExpr struct {
	Name  lexer.Token
	Value Expr
}

func (*AssignExpr) expr() {}

type BinaryExpr struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (*BinaryExpr) expr() {}

type CallExpr struct {
	Callee Expr
	Paren  lexer.Token
	Args   []Expr
}

func (*CallExpr) expr() {}

type GetExpr struct {
	Object Expr
	Name   lexer.Token
}

func (*GetExpr) expr() {}

type GroupingExpr struct {
	Expr Expr
}

func (*GroupingExpr) expr() {}

// LiteralExpr holds nil, bool, float64 or string.
type LiteralExpr struct {
	Value any
}

func (*LiteralExpr) expr() {}

type LogicalExpr struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (*LogicalExpr) expr() {}

type SetExpr struct {
	Object Expr
	Name   lexer.Token
	Value  Expr
}

func (*SetExpr) expr() {}

type ThisExpr struct {
	Keyword lexer.Token
}

func (*ThisExpr) expr() {}

type UnaryExpr struct {
	Operator lexer.Token
	Right    Expr
}

func (*UnaryExpr) expr() {}

type VariableExpr struct {
	Name lexer.Token
}

func (*VariableExpr) expr() {}

type Statement interface {
	statement()
}

type BlockStatement struct {
	Body []Statement
}

func (*BlockStatement) statement() {}

type BreakStatement struct {
	Keyword lexer.Token
}

func (*BreakStatement) statement() {}

type ClassStatement struct {
	Name    lexer.Token
	Methods []*FunctionStatement
}

func (*ClassStatement) statement() {}

type ExprStatement struct {
	Expr Expr
}

func (*ExprStatement) statement() {}

type FunctionStatement struct {
	Name       lexer.Token
	Parameters []lexer.Token
	Body       []Statement
}

func (*FunctionStatement) statement() {}

type IfStatement struct {
	Condition Expr
	Then      Statement
	Else      Statement // nil when absent
}

func (*IfStatement) statement() {}

type PrintStatement struct {
	Expr Expr
}

func (*PrintStatement) statement() {}

type ReturnStatement struct {
	Keyword lexer.Token
	Value   Expr // nil for a bare return
}

func (*ReturnStatement) statement() {}

type VarStatement struct {
	Name        lexer.Token
	Initializer Expr // nil when omitted
}

func (*VarStatement) statement() {}

type WhileStatement struct {
	Condition Expr
	Body      Statement
}

func (*WhileStatement) statement() {}
