package lox

import (
	"context"
	"errors"
	"fmt"

	"github.com/rhino1998/lox/pkg/interpreter"
)

const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 64
	ExitStatic      = 65
	ExitRuntime     = 70
	ExitInterrupted = 130 // cancelled by SIGINT or SIGTERM
)

// StaticError reports that a unit failed to scan, parse or resolve. Its
// diagnostics have already been written to the configured error output.
type StaticError struct {
	Err error
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("static errors:\n%v", e.Err)
}

func (e *StaticError) Unwrap() error {
	return e.Err
}

// UsageError reports bad command line usage.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ExitCode maps the result of running a unit to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	var staticErr *StaticError
	if errors.As(err, &staticErr) {
		return ExitStatic
	}

	var runtimeErr *interpreter.RuntimeError
	if errors.As(err, &runtimeErr) {
		return ExitRuntime
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}

	return ExitFailure
}
