package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/rhino1998/lox/pkg/resolver"
)

// Value is a runtime value: nil, bool, float64, string, Callable (*Function,
// *Native or *Class) or *Instance.
type Value interface{}

type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

// Function is a user-defined function or method together with the
// environment it closes over.
type Function struct {
	decl          *parser.FunctionStatement
	closure       *Environment
	isInitializer bool
}

func (f *Function) Name() string {
	return f.decl.Name.Lexeme
}

func (f *Function) Arity() int {
	return len(f.decl.Parameters)
}

func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Parameters {
		env.Define(param.Lexeme, args[i])
	}

	sig, err := in.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}

	if sig.kind == signalReturn {
		return sig.value, nil
	}

	return nil, nil
}

// bind returns a copy of f whose closure defines "this" as instance.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)

	return &Function{
		decl:          f.decl,
		closure:       env,
		isInitializer: f.isInitializer,
	}
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Name())
}

// Native is a built-in function implemented in Go.
type Native struct {
	name  string
	arity int
	fn    func(args []Value) (Value, error)
}

func NewNative(name string, arity int, fn func(args []Value) (Value, error)) *Native {
	return &Native{
		name:  name,
		arity: arity,
		fn:    fn,
	}
}

func (n *Native) Name() string {
	return n.name
}

func (n *Native) Arity() int {
	return n.arity
}

func (n *Native) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.fn(args)
}

func (n *Native) String() string {
	return "<native fn>"
}

type Class struct {
	name    string
	methods map[string]*Function
}

func (c *Class) Name() string {
	return c.name
}

func (c *Class) findMethod(name string) (*Function, bool) {
	m, ok := c.methods[name]
	return m, ok
}

func (c *Class) Arity() int {
	if init, ok := c.findMethod(resolver.InitializerName); ok {
		return init.Arity()
	}

	return 0
}

// Call creates a new instance and runs the initializer, if any, on it.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := &Instance{
		class:  c,
		fields: make(map[string]Value),
	}

	if init, ok := c.findMethod(resolver.InitializerName); ok {
		_, err := init.bind(instance).Call(in, args)
		if err != nil {
			return nil, err
		}
	}

	return instance, nil
}

func (c *Class) String() string {
	return c.name
}

type Instance struct {
	class  *Class
	fields map[string]Value
}

func (i *Instance) Class() *Class {
	return i.class
}

// Get returns the field called name, or else the class method of that name
// bound to i.
func (i *Instance) Get(name lexer.Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}

	if m, ok := i.class.findMethod(name.Lexeme); ok {
		return m.bind(i), nil
	}

	return nil, runtimeErrorf(name, "Undefined property '%s'.", name.Lexeme)
}

func (i *Instance) Set(name lexer.Token, value Value) {
	i.fields[name.Lexeme] = value
}

func (i *Instance) String() string {
	return fmt.Sprintf("<%s instance>", i.class.name)
}

func isTruthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

func isEqual(a, b Value) bool {
	if a == nil {
		return b == nil
	}

	return a == b
}

// Stringify formats v the way print displays it.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(v float64) string {
	switch {
	case v == 0:
		// also folds negative zero
		return "0"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// TypeName names the runtime type of v.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	case Callable:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// describe renders v with its type for error messages.
func describe(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return "string " + strconv.Quote(v)
	default:
		return TypeName(v) + " " + Stringify(v)
	}
}
