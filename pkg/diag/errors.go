package diag

import (
	"errors"
	"fmt"
)

// Diagnostic is a single static error found while scanning, parsing or
// resolving a source unit.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Reporter receives every diagnostic as soon as it is recorded.
type Reporter func(Diagnostic)

type ErrorSet struct {
	Errs []error

	report Reporter
}

// NewErrorSet returns an empty set. report may be nil.
func NewErrorSet(report Reporter) *ErrorSet {
	return &ErrorSet{report: report}
}

func (e *ErrorSet) Add(err error) {
	var subErrs *ErrorSet
	if errors.As(err, &subErrs) {
		// already reported by the set that recorded them
		e.Errs = append(e.Errs, subErrs.Unwrap()...)
		return
	}

	var d Diagnostic
	if e.report != nil && errors.As(err, &d) {
		e.report(d)
	}

	e.Errs = append(e.Errs, err)
}

// Addf records a diagnostic at line.
func (e *ErrorSet) Addf(line int, where string, format string, args ...any) Diagnostic {
	d := Diagnostic{
		Line:    line,
		Where:   where,
		Message: fmt.Sprintf(format, args...),
	}
	e.Add(d)

	return d
}

func (e *ErrorSet) Len() int {
	if e == nil {
		return 0
	}

	return len(e.Errs)
}

func (e *ErrorSet) Error() string {
	return errors.Join(e.Errs...).Error()
}

func (e *ErrorSet) Unwrap() []error {
	return e.Errs
}

// Diagnostics returns the recorded diagnostics in the order they were added.
func (e *ErrorSet) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, err := range e.Errs {
		var d Diagnostic
		if errors.As(err, &d) {
			out = append(out, d)
		}
	}

	return out
}

// Err returns e, or nil if nothing was recorded.
func (e *ErrorSet) Err() error {
	if e.Len() == 0 {
		return nil
	}

	return e
}
