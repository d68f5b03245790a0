package interpreter

import (
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/rhino1998/lox/pkg/resolver"
)

type signalKind uint8

const (
	signalNone signalKind = iota
	signalBreak
	signalReturn
)

// MaxCallDepth bounds nested calls so runaway recursion in a script becomes a
// runtime error instead of exhausting the host stack.
const MaxCallDepth = 1000

// signal reports how a statement finished. Loops consume signalBreak and
// calls consume signalReturn; anything else keeps propagating outward.
type signal struct {
	kind  signalKind
	value Value
}

// Interpreter evaluates resolved statements. Globals persist across calls to
// Interpret, so one Interpreter can serve a whole interactive session.
type Interpreter struct {
	logger *slog.Logger
	out    io.Writer

	globals *Environment
	env     *Environment
	locals  map[parser.Expr]int

	depth int
}

// New returns an interpreter that writes print output to out.
func New(logger *slog.Logger, out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	for _, native := range DefaultNatives() {
		globals.Define(native.Name(), native)
	}

	return &Interpreter{
		logger:  logger,
		out:     out,
		globals: globals,
		env:     globals,
		locals:  make(map[parser.Expr]int),
	}
}

// Define binds a global, typically a native function supplied by the host.
func (in *Interpreter) Define(name string, value Value) {
	in.globals.Define(name, value)
}

// Interpret executes stmts in order using bindings produced by the resolver
// for those statements. It stops at the first runtime error and returns it
// as a *RuntimeError. On success it returns the value of the last top-level
// expression statement, or nil.
func (in *Interpreter) Interpret(stmts []parser.Statement, bindings resolver.Bindings) (Value, error) {
	maps.Copy(in.locals, bindings)

	in.logger.Debug("interpreting",
		slog.Int("statements", len(stmts)),
		slog.Int("bindings", len(bindings)),
	)

	var last Value
	for _, stmt := range stmts {
		if stmt, ok := stmt.(*parser.ExprStatement); ok {
			val, err := in.evaluate(stmt.Expr)
			if err != nil {
				return nil, in.fail(err)
			}

			last = val
			continue
		}

		_, err := in.execute(stmt)
		if err != nil {
			return nil, in.fail(err)
		}
	}

	return last, nil
}

func (in *Interpreter) fail(err error) error {
	in.logger.Debug("runtime error", slog.Any("err", err))
	return err
}

func (in *Interpreter) execute(stmt parser.Statement) (signal, error) {
	switch stmt := stmt.(type) {
	case *parser.BlockStatement:
		return in.executeBlock(stmt.Body, NewEnvironment(in.env))
	case *parser.BreakStatement:
		return signal{kind: signalBreak}, nil
	case *parser.ClassStatement:
		class := &Class{
			name:    stmt.Name.Lexeme,
			methods: make(map[string]*Function, len(stmt.Methods)),
		}

		for _, method := range stmt.Methods {
			class.methods[method.Name.Lexeme] = &Function{
				decl:          method,
				closure:       in.env,
				isInitializer: method.Name.Lexeme == resolver.InitializerName,
			}
		}

		in.env.Define(stmt.Name.Lexeme, class)
		return signal{}, nil
	case *parser.ExprStatement:
		_, err := in.evaluate(stmt.Expr)
		return signal{}, err
	case *parser.FunctionStatement:
		in.env.Define(stmt.Name.Lexeme, &Function{decl: stmt, closure: in.env})
		return signal{}, nil
	case *parser.IfStatement:
		cond, err := in.evaluate(stmt.Condition)
		if err != nil {
			return signal{}, err
		}

		if isTruthy(cond) {
			return in.execute(stmt.Then)
		} else if stmt.Else != nil {
			return in.execute(stmt.Else)
		}

		return signal{}, nil
	case *parser.PrintStatement:
		val, err := in.evaluate(stmt.Expr)
		if err != nil {
			return signal{}, err
		}

		_, err = fmt.Fprintln(in.out, Stringify(val))
		if err != nil {
			return signal{}, fmt.Errorf("failed to write output: %w", err)
		}

		return signal{}, nil
	case *parser.ReturnStatement:
		var val Value
		if stmt.Value != nil {
			var err error
			val, err = in.evaluate(stmt.Value)
			if err != nil {
				return signal{}, err
			}
		}

		return signal{kind: signalReturn, value: val}, nil
	case *parser.VarStatement:
		var val Value
		if stmt.Initializer != nil {
			var err error
			val, err = in.evaluate(stmt.Initializer)
			if err != nil {
				return signal{}, err
			}
		}

		in.env.Define(stmt.Name.Lexeme, val)
		return signal{}, nil
	case *parser.WhileStatement:
		for {
			cond, err := in.evaluate(stmt.Condition)
			if err != nil {
				return signal{}, err
			}

			if !isTruthy(cond) {
				return signal{}, nil
			}

			sig, err := in.execute(stmt.Body)
			if err != nil {
				return signal{}, err
			}

			switch sig.kind {
			case signalBreak:
				return signal{}, nil
			case signalReturn:
				return sig, nil
			}
		}
	default:
		return signal{}, fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

// executeBlock runs stmts with env as the current environment, restoring the
// previous environment however the block exits.
func (in *Interpreter) executeBlock(stmts []parser.Statement, env *Environment) (signal, error) {
	prev := in.env
	in.env = env
	defer func() {
		in.env = prev
	}()

	for _, stmt := range stmts {
		sig, err := in.execute(stmt)
		if err != nil {
			return signal{}, err
		}

		if sig.kind != signalNone {
			return sig, nil
		}
	}

	return signal{}, nil
}

func (in *Interpreter) evaluate(expr parser.Expr) (Value, error) {
	switch expr := expr.(type) {
	case *parser.AssignExpr:
		val, err := in.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}

		if distance, ok := in.locals[expr]; ok {
			in.env.AssignAt(distance, expr.Name.Lexeme, val)
		} else if err := in.globals.Assign(expr.Name, val); err != nil {
			return nil, err
		}

		return val, nil
	case *parser.BinaryExpr:
		left, err := in.evaluate(expr.Left)
		if err != nil {
			return nil, err
		}

		right, err := in.evaluate(expr.Right)
		if err != nil {
			return nil, err
		}

		return binaryOperate(expr.Operator, left, right)
	case *parser.CallExpr:
		callee, err := in.evaluate(expr.Callee)
		if err != nil {
			return nil, err
		}

		callable, ok := callee.(Callable)
		if !ok {
			return nil, runtimeErrorf(expr.Paren, "Can only call functions and classes.")
		}

		args := make([]Value, 0, len(expr.Args))
		for _, arg := range expr.Args {
			val, err := in.evaluate(arg)
			if err != nil {
				return nil, err
			}

			args = append(args, val)
		}

		if len(args) != callable.Arity() {
			return nil, runtimeErrorf(expr.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args))
		}

		return in.call(expr.Paren, callable, args)
	case *parser.GetExpr:
		obj, err := in.evaluate(expr.Object)
		if err != nil {
			return nil, err
		}

		instance, ok := obj.(*Instance)
		if !ok {
			return nil, runtimeErrorf(expr.Name, "Only instances have properties.")
		}

		return instance.Get(expr.Name)
	case *parser.GroupingExpr:
		return in.evaluate(expr.Expr)
	case *parser.LiteralExpr:
		return expr.Value, nil
	case *parser.LogicalExpr:
		left, err := in.evaluate(expr.Left)
		if err != nil {
			return nil, err
		}

		if expr.Operator.Kind == lexer.KindOr {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}

		return in.evaluate(expr.Right)
	case *parser.SetExpr:
		obj, err := in.evaluate(expr.Object)
		if err != nil {
			return nil, err
		}

		instance, ok := obj.(*Instance)
		if !ok {
			return nil, runtimeErrorf(expr.Name, "Only instances have fields.")
		}

		val, err := in.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}

		instance.Set(expr.Name, val)
		return val, nil
	case *parser.ThisExpr:
		return in.lookUpVariable(expr.Keyword, expr)
	case *parser.UnaryExpr:
		right, err := in.evaluate(expr.Right)
		if err != nil {
			return nil, err
		}

		switch expr.Operator.Kind {
		case lexer.KindBang:
			return !isTruthy(right), nil
		case lexer.KindMinus:
			n, ok := right.(float64)
			if !ok {
				return nil, runtimeErrorf(expr.Operator, "Operand of '-' must be a number, got %s.", describe(right))
			}

			return -n, nil
		default:
			return nil, runtimeErrorf(expr.Operator, "Unhandled unary operator '%s'.", expr.Operator.Lexeme)
		}
	case *parser.VariableExpr:
		return in.lookUpVariable(expr.Name, expr)
	default:
		return nil, fmt.Errorf("unhandled expression type: %T", expr)
	}
}

func (in *Interpreter) call(paren lexer.Token, callable Callable, args []Value) (Value, error) {
	if in.depth >= MaxCallDepth {
		return nil, runtimeErrorf(paren, "Stack overflow.")
	}

	in.depth++
	defer func() {
		in.depth--
	}()

	return callable.Call(in, args)
}

func (in *Interpreter) lookUpVariable(name lexer.Token, expr parser.Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}

	return in.globals.Get(name)
}

func binaryOperate(op lexer.Token, left, right Value) (Value, error) {
	switch op.Kind {
	case lexer.KindEqualEqual:
		return isEqual(left, right), nil
	case lexer.KindBangEqual:
		return !isEqual(left, right), nil
	case lexer.KindPlus:
		switch l := left.(type) {
		case float64:
			if r, ok := right.(float64); ok {
				return l + r, nil
			}
		case string:
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		}

		return nil, runtimeErrorf(op, "Operands of '+' must be two numbers or two strings, got %s and %s.", describe(left), describe(right))
	}

	l, r, err := numbersOrFail(op, left, right)
	if err != nil {
		return nil, err
	}

	switch op.Kind {
	case lexer.KindMinus:
		return l - r, nil
	case lexer.KindStar:
		return l * r, nil
	case lexer.KindSlash:
		return l / r, nil
	case lexer.KindGreater:
		return l > r, nil
	case lexer.KindGreaterEqual:
		return l >= r, nil
	case lexer.KindLess:
		return l < r, nil
	case lexer.KindLessEqual:
		return l <= r, nil
	default:
		return nil, runtimeErrorf(op, "Unhandled binary operator '%s'.", op.Lexeme)
	}
}

func numbersOrFail(op lexer.Token, left, right Value) (float64, float64, error) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, runtimeErrorf(op, "Operands of '%s' must be numbers, got %s and %s.", op.Lexeme, describe(left), describe(right))
	}

	return l, r, nil
}
