package interpreter

import "github.com/rhino1998/lox/pkg/lexer"

// Environment is one link in the chain of runtime scopes. Closures keep a
// reference to the environment they were defined in, so an environment lives
// as long as any closure or active call still points at it.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]Value),
	}
}

// Define binds name in e, replacing any previous binding in e itself.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks name up in e and its ancestors.
func (e *Environment) Get(name lexer.Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}

	return nil, runtimeErrorf(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign updates the nearest existing binding of name.
func (e *Environment) Assign(name lexer.Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}

	return runtimeErrorf(name, "Undefined variable '%s'.", name.Lexeme)
}

func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.ancestor(distance).values[name] = value
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}

	return env
}
