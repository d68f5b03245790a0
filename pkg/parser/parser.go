package parser

import (
	"fmt"

	"github.com/rhino1998/lox/pkg/diag"
	"github.com/rhino1998/lox/pkg/lexer"
)

// MaxArity caps both declared parameters and call arguments.
const MaxArity = 255

// Parse builds statements from tokens, which must end with a KindEOF token.
// Syntax errors are reported and parsing resumes at the next statement
// boundary, so the returned statements are best effort whenever the returned
// error (a *diag.ErrorSet) is non-nil.
func Parse(tokens []lexer.Token, report diag.Reporter) ([]Statement, error) {
	p := &parser{
		tokens: tokens,
		errs:   diag.NewErrorSet(report),
	}

	var stmts []Statement
	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts, p.errs.Err()
}

type parser struct {
	tokens  []lexer.Token
	current int

	errs *diag.ErrorSet
}

func (p *parser) declaration() Statement {
	var stmt Statement
	var err error
	switch {
	case p.match(lexer.KindClass):
		stmt, err = p.classDeclaration()
	case p.match(lexer.KindFun):
		stmt, err = p.function("function")
	case p.match(lexer.KindVar):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}

	return stmt
}

func (p *parser) classDeclaration() (Statement, error) {
	name, err := p.consume(lexer.KindIdentifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lexer.KindLeftBrace, "Expect '{' before class body.")
	if err != nil {
		return nil, err
	}

	var methods []*FunctionStatement
	for !p.check(lexer.KindRightBrace) && !p.isAtEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}

		methods = append(methods, method)
	}

	_, err = p.consume(lexer.KindRightBrace, "Expect '}' after class body.")
	if err != nil {
		return nil, err
	}

	return &ClassStatement{Name: name, Methods: methods}, nil
}

func (p *parser) function(kind string) (*FunctionStatement, error) {
	name, err := p.consume(lexer.KindIdentifier, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lexer.KindLeftParen, fmt.Sprintf("Expect '(' after %s name.", kind))
	if err != nil {
		return nil, err
	}

	var params []lexer.Token
	if !p.check(lexer.KindRightParen) {
		for {
			if len(params) >= MaxArity {
				p.error(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", MaxArity))
			}

			param, err := p.consume(lexer.KindIdentifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)

			if !p.match(lexer.KindComma) {
				break
			}
		}
	}

	_, err = p.consume(lexer.KindRightParen, "Expect ')' after parameters.")
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lexer.KindLeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind))
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &FunctionStatement{Name: name, Parameters: params, Body: body}, nil
}

func (p *parser) varDeclaration() (Statement, error) {
	name, err := p.consume(lexer.KindIdentifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.match(lexer.KindEqual) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(lexer.KindSemicolon, "Expect ';' after variable declaration.")
	if err != nil {
		return nil, err
	}

	return &VarStatement{Name: name, Initializer: init}, nil
}

func (p *parser) statement() (Statement, error) {
	switch {
	case p.match(lexer.KindFor):
		return p.forStatement()
	case p.match(lexer.KindIf):
		return p.ifStatement()
	case p.match(lexer.KindPrint):
		return p.printStatement()
	case p.match(lexer.KindReturn):
		return p.returnStatement()
	case p.match(lexer.KindBreak):
		return p.breakStatement()
	case p.match(lexer.KindWhile):
		return p.whileStatement()
	case p.match(lexer.KindLeftBrace):
		body, err := p.block()
		if err != nil {
			return nil, err
		}

		return &BlockStatement{Body: body}, nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
func (p *parser) forStatement() (Statement, error) {
	_, err := p.consume(lexer.KindLeftParen, "Expect '(' after 'for'.")
	if err != nil {
		return nil, err
	}

	var init Statement
	switch {
	case p.match(lexer.KindSemicolon):
	case p.match(lexer.KindVar):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr = &LiteralExpr{Value: true}
	if !p.check(lexer.KindSemicolon) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(lexer.KindSemicolon, "Expect ';' after loop condition.")
	if err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(lexer.KindRightParen) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(lexer.KindRightParen, "Expect ')' after for clauses.")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &BlockStatement{Body: []Statement{body, &ExprStatement{Expr: incr}}}
	}

	body = &WhileStatement{Condition: cond, Body: body}

	if init != nil {
		body = &BlockStatement{Body: []Statement{init, body}}
	}

	return body, nil
}

func (p *parser) ifStatement() (Statement, error) {
	_, err := p.consume(lexer.KindLeftParen, "Expect '(' after 'if'.")
	if err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lexer.KindRightParen, "Expect ')' after if condition.")
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var els Statement
	if p.match(lexer.KindElse) {
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	return &IfStatement{Condition: cond, Then: then, Else: els}, nil
}

func (p *parser) printStatement() (Statement, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lexer.KindSemicolon, "Expect ';' after value.")
	if err != nil {
		return nil, err
	}

	return &PrintStatement{Expr: value}, nil
}

func (p *parser) returnStatement() (Statement, error) {
	keyword := p.previous()

	var value Expr
	var err error
	if !p.check(lexer.KindSemicolon) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(lexer.KindSemicolon, "Expect ';' after return value.")
	if err != nil {
		return nil, err
	}

	return &ReturnStatement{Keyword: keyword, Value: value}, nil
}

func (p *parser) breakStatement() (Statement, error) {
	keyword := p.previous()

	_, err := p.consume(lexer.KindSemicolon, "Expect ';' after 'break'.")
	if err != nil {
		return nil, err
	}

	return &BreakStatement{Keyword: keyword}, nil
}

func (p *parser) whileStatement() (Statement, error) {
	_, err := p.consume(lexer.KindLeftParen, "Expect '(' after 'while'.")
	if err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lexer.KindRightParen, "Expect ')' after condition.")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &WhileStatement{Condition: cond, Body: body}, nil
}

func (p *parser) block() ([]Statement, error) {
	var stmts []Statement
	for !p.check(lexer.KindRightBrace) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	_, err := p.consume(lexer.KindRightBrace, "Expect '}' after block.")
	if err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *parser) expressionStatement() (Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lexer.KindSemicolon, "Expect ';' after expression.")
	if err != nil {
		return nil, err
	}

	return &ExprStatement{Expr: expr}, nil
}

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if !p.match(lexer.KindEqual) {
		return expr, nil
	}

	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	switch target := expr.(type) {
	case *VariableExpr:
		return &AssignExpr{Name: target.Name, Value: value}, nil
	case *GetExpr:
		return &SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
	default:
		// no need to synchronize, the parser is not confused
		p.error(equals, "Invalid assignment target.")
		return expr, nil
	}
}

func (p *parser) or() (Expr, error) {
	return p.logical(p.and, lexer.KindOr)
}

func (p *parser) and() (Expr, error) {
	return p.logical(p.equality, lexer.KindAnd)
}

func (p *parser) equality() (Expr, error) {
	return p.binary(p.comparison, lexer.KindBangEqual, lexer.KindEqualEqual)
}

func (p *parser) comparison() (Expr, error) {
	return p.binary(p.term, lexer.KindGreater, lexer.KindGreaterEqual, lexer.KindLess, lexer.KindLessEqual)
}

func (p *parser) term() (Expr, error) {
	return p.binary(p.factor, lexer.KindMinus, lexer.KindPlus)
}

func (p *parser) factor() (Expr, error) {
	return p.binary(p.unary, lexer.KindSlash, lexer.KindStar)
}

// binary parses a left-associative chain of operand separated by any of ops.
func (p *parser) binary(operand func() (Expr, error), ops ...lexer.Kind) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(ops...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}

	return expr, nil
}

func (p *parser) logical(operand func() (Expr, error), op lexer.Kind) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(op) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

func (p *parser) unary() (Expr, error) {
	if p.match(lexer.KindBang, lexer.KindMinus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Operator: op, Right: right}, nil
	}

	return p.call()
}

func (p *parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(lexer.KindLeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(lexer.KindDot):
			name, err := p.consume(lexer.KindIdentifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}

			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(lexer.KindRightParen) {
		for {
			if len(args) >= MaxArity {
				p.error(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", MaxArity))
			}

			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.match(lexer.KindComma) {
				break
			}
		}
	}

	paren, err := p.consume(lexer.KindRightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}

	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *parser) primary() (Expr, error) {
	switch {
	case p.match(lexer.KindFalse):
		return &LiteralExpr{Value: false}, nil
	case p.match(lexer.KindTrue):
		return &LiteralExpr{Value: true}, nil
	case p.match(lexer.KindNil):
		return &LiteralExpr{Value: nil}, nil
	case p.match(lexer.KindNumber, lexer.KindString):
		return &LiteralExpr{Value: p.previous().Literal}, nil
	case p.match(lexer.KindThis):
		return &ThisExpr{Keyword: p.previous()}, nil
	case p.match(lexer.KindIdentifier):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(lexer.KindLeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		_, err = p.consume(lexer.KindRightParen, "Expect ')' after expression.")
		if err != nil {
			return nil, err
		}

		return &GroupingExpr{Expr: expr}, nil
	default:
		return nil, p.error(p.peek(), "Expect expression.")
	}
}

// synchronize discards tokens until the likely start of the next statement.
func (p *parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == lexer.KindSemicolon {
			return
		}

		switch p.peek().Kind {
		case lexer.KindClass, lexer.KindFun, lexer.KindVar, lexer.KindFor,
			lexer.KindIf, lexer.KindWhile, lexer.KindPrint, lexer.KindReturn,
			lexer.KindBreak:
			return
		}

		p.advance()
	}
}

func (p *parser) match(kinds ...lexer.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *parser) consume(kind lexer.Kind, message string) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	return lexer.Token{}, p.error(p.peek(), message)
}

func (p *parser) check(kind lexer.Kind) bool {
	if p.isAtEnd() {
		return false
	}

	return p.peek().Kind == kind
}

func (p *parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p *parser) isAtEnd() bool {
	return p.peek().Kind == lexer.KindEOF
}

func (p *parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *parser) error(tok lexer.Token, message string) error {
	if tok.Kind == lexer.KindEOF {
		return p.errs.Addf(tok.Line, " at end", "%s", message)
	}

	return p.errs.Addf(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), "%s", message)
}
