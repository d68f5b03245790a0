package interpreter

import (
	"fmt"

	"github.com/rhino1998/lox/pkg/lexer"
)

// RuntimeError aborts the unit being interpreted. Token locates the failing
// operation in the source.
type RuntimeError struct {
	Token   lexer.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func runtimeErrorf(tok lexer.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
