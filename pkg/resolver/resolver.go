package resolver

import (
	"fmt"

	"github.com/rhino1998/lox/pkg/diag"
	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/rhino1998/lox/pkg/parser"
)

// Bindings maps a variable, assignment or this expression to the number of
// scopes between its use and its declaration. Expressions missing from the
// table refer to globals.
type Bindings map[parser.Expr]int

type functionKind uint8

const (
	functionNone functionKind = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classKind uint8

const (
	classNone classKind = iota
	classClass
)

type loopKind uint8

const (
	loopNone loopKind = iota
	loopWhile
)

// InitializerName is the method name that marks a class initializer.
const InitializerName = "init"

// Resolve statically binds every local variable reference in stmts and
// checks scoping rules. All problems are reported; the returned error is a
// *diag.ErrorSet when any were found.
func Resolve(stmts []parser.Statement, report diag.Reporter) (Bindings, error) {
	r := &resolver{
		bindings: make(Bindings),
		errs:     diag.NewErrorSet(report),
	}

	r.statements(stmts)

	return r.bindings, r.errs.Err()
}

type resolver struct {
	scope    *scope
	bindings Bindings

	function functionKind
	class    classKind
	loop     loopKind

	errs *diag.ErrorSet
}

func (r *resolver) statements(stmts []parser.Statement) {
	for _, stmt := range stmts {
		r.statement(stmt)
	}
}

func (r *resolver) statement(stmt parser.Statement) {
	switch stmt := stmt.(type) {
	case *parser.BlockStatement:
		r.beginScope()
		r.statements(stmt.Body)
		r.endScope()
	case *parser.BreakStatement:
		if r.loop == loopNone {
			r.error(stmt.Keyword, "Can't use 'break' outside of a loop.")
		}
	case *parser.ClassStatement:
		enclosing := r.class
		r.class = classClass

		r.declare(stmt.Name)
		r.define(stmt.Name)

		r.beginScope()
		r.scope.put("this", bindingDefined)

		for _, method := range stmt.Methods {
			kind := functionMethod
			if method.Name.Lexeme == InitializerName {
				kind = functionInitializer
			}

			r.resolveFunction(method, kind)
		}

		r.endScope()
		r.class = enclosing
	case *parser.ExprStatement:
		r.expression(stmt.Expr)
	case *parser.FunctionStatement:
		r.declare(stmt.Name)
		r.define(stmt.Name)

		r.resolveFunction(stmt, functionFunction)
	case *parser.IfStatement:
		r.expression(stmt.Condition)
		r.statement(stmt.Then)
		if stmt.Else != nil {
			r.statement(stmt.Else)
		}
	case *parser.PrintStatement:
		r.expression(stmt.Expr)
	case *parser.ReturnStatement:
		if r.function == functionNone {
			r.error(stmt.Keyword, "Can't return from top-level code.")
		}

		if stmt.Value != nil {
			if r.function == functionInitializer {
				r.error(stmt.Keyword, "Can't return a value from an initializer.")
			}

			r.expression(stmt.Value)
		}
	case *parser.VarStatement:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.expression(stmt.Initializer)
		}
		r.define(stmt.Name)
	case *parser.WhileStatement:
		enclosing := r.loop
		r.loop = loopWhile

		r.expression(stmt.Condition)
		r.statement(stmt.Body)

		r.loop = enclosing
	default:
		panic(fmt.Sprintf("resolver: unhandled statement type %T", stmt))
	}
}

func (r *resolver) resolveFunction(fn *parser.FunctionStatement, kind functionKind) {
	enclosingFunction, enclosingLoop := r.function, r.loop
	r.function, r.loop = kind, loopNone

	r.beginScope()
	for _, param := range fn.Parameters {
		r.declare(param)
		r.define(param)
	}
	r.statements(fn.Body)
	r.endScope()

	r.function, r.loop = enclosingFunction, enclosingLoop
}

func (r *resolver) expression(expr parser.Expr) {
	switch expr := expr.(type) {
	case *parser.AssignExpr:
		r.expression(expr.Value)
		r.local(expr, expr.Name.Lexeme)
	case *parser.BinaryExpr:
		r.expression(expr.Left)
		r.expression(expr.Right)
	case *parser.CallExpr:
		r.expression(expr.Callee)
		for _, arg := range expr.Args {
			r.expression(arg)
		}
	case *parser.GetExpr:
		r.expression(expr.Object)
	case *parser.GroupingExpr:
		r.expression(expr.Expr)
	case *parser.LiteralExpr:
	case *parser.LogicalExpr:
		r.expression(expr.Left)
		r.expression(expr.Right)
	case *parser.SetExpr:
		r.expression(expr.Value)
		r.expression(expr.Object)
	case *parser.ThisExpr:
		if r.class == classNone {
			r.error(expr.Keyword, "Can't use 'this' outside of a class.")
			return
		}

		r.local(expr, "this")
	case *parser.UnaryExpr:
		r.expression(expr.Right)
	case *parser.VariableExpr:
		if b, ok := r.scope.get(expr.Name.Lexeme); ok && b == bindingDeclared {
			r.error(expr.Name, "Can't read local variable in its own initializer.")
		}

		r.local(expr, expr.Name.Lexeme)
	default:
		panic(fmt.Sprintf("resolver: unhandled expression type %T", expr))
	}
}

func (r *resolver) local(expr parser.Expr, name string) {
	if depth, ok := r.scope.depth(name); ok {
		r.bindings[expr] = depth
	}
}

func (r *resolver) declare(name lexer.Token) {
	if r.scope.put(name.Lexeme, bindingDeclared) {
		r.error(name, "Already a variable with this name in this scope.")
	}
}

func (r *resolver) define(name lexer.Token) {
	r.scope.put(name.Lexeme, bindingDefined)
}

func (r *resolver) beginScope() {
	r.scope = newScope(r.scope)
}

func (r *resolver) endScope() {
	r.scope = r.scope.parent
}

func (r *resolver) error(tok lexer.Token, message string) {
	if tok.Kind == lexer.KindEOF {
		r.errs.Addf(tok.Line, " at end", "%s", message)
		return
	}

	r.errs.Addf(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), "%s", message)
}
