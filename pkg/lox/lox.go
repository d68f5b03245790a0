package lox

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rhino1998/lox/pkg/diag"
	"github.com/rhino1998/lox/pkg/interpreter"
	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/rhino1998/lox/pkg/resolver"
)

// Runner feeds source units through the lexer, parser, resolver and
// interpreter. Globals persist between units run by the same Runner.
type Runner struct {
	logger *slog.Logger
	Config Config

	interp *interpreter.Interpreter
}

func New(logger *slog.Logger, config Config) (*Runner, error) {
	err := config.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return &Runner{
		logger: logger,
		Config: config,
		interp: interpreter.New(logger, config.Stdout),
	}, nil
}

// Interpreter exposes the underlying interpreter, e.g. to define natives.
func (r *Runner) Interpreter() *interpreter.Interpreter {
	return r.interp
}

// Run executes one source unit. Static errors are all reported before Run
// returns a *StaticError, and nothing is executed in that case. A runtime
// error is reported and returned as a *interpreter.RuntimeError. On success
// Run returns the value of the unit's last top-level expression statement.
func (r *Runner) Run(ctx context.Context, source string) (interpreter.Value, error) {
	stmts, bindings, err := r.Check(ctx, source)
	if err != nil {
		return nil, err
	}

	val, err := r.interp.Interpret(stmts, bindings)
	if err != nil {
		var runtimeErr *interpreter.RuntimeError
		if errors.As(err, &runtimeErr) {
			fmt.Fprintln(r.Config.Stderr, runtimeErr.Error())
		}

		return nil, err
	}

	return val, nil
}

// Check scans, parses and resolves source without executing it.
func (r *Runner) Check(ctx context.Context, source string) ([]parser.Statement, resolver.Bindings, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	errs := diag.NewErrorSet(nil)

	tokens, err := lexer.Scan(source, r.report)
	if err != nil {
		errs.Add(err)
	}
	r.logger.DebugContext(ctx, "scanned", slog.Int("tokens", len(tokens)), slog.Int("errors", errs.Len()))

	// parse and resolve even after earlier failures so one run surfaces as
	// many independent errors as possible
	stmts, err := parser.Parse(tokens, r.report)
	if err != nil {
		errs.Add(err)
	}
	r.logger.DebugContext(ctx, "parsed", slog.Int("statements", len(stmts)), slog.Int("errors", errs.Len()))

	bindings, err := resolver.Resolve(stmts, r.report)
	if err != nil {
		errs.Add(err)
	}
	r.logger.DebugContext(ctx, "resolved", slog.Int("bindings", len(bindings)), slog.Int("errors", errs.Len()))

	if errs.Len() > 0 {
		return nil, nil, &StaticError{Err: errs}
	}

	return stmts, bindings, nil
}

func (r *Runner) report(d diag.Diagnostic) {
	fmt.Fprintln(r.Config.Stderr, d.Error())
}

// REPL reads and runs src line by line until EOF or ctx is cancelled. Errors
// in one line are reported and do not end the session.
func (r *Runner) REPL(ctx context.Context, src io.Reader) error {
	scanner := bufio.NewScanner(src)

	for {
		fmt.Fprint(r.Config.Stdout, r.Config.Prompt)

		if !scanner.Scan() {
			fmt.Fprintln(r.Config.Stdout)
			return scanner.Err()
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		val, err := r.Run(ctx, line)
		if err != nil {
			r.logger.DebugContext(ctx, "line failed", slog.Any("err", err))
			continue
		}

		if r.Config.Echo && val != nil {
			fmt.Fprintln(r.Config.Stdout, interpreter.Stringify(val))
		}
	}
}

// Tokens scans source and returns its tokens, reporting any lexical errors.
func (r *Runner) Tokens(source string) ([]lexer.Token, error) {
	tokens, err := lexer.Scan(source, r.report)
	if err != nil {
		return tokens, &StaticError{Err: err}
	}

	return tokens, nil
}

// Parse scans and parses source, reporting any errors.
func (r *Runner) Parse(source string) ([]parser.Statement, error) {
	errs := diag.NewErrorSet(nil)

	tokens, err := lexer.Scan(source, r.report)
	if err != nil {
		errs.Add(err)
	}

	stmts, err := parser.Parse(tokens, r.report)
	if err != nil {
		errs.Add(err)
	}

	if errs.Len() > 0 {
		return stmts, &StaticError{Err: errs}
	}

	return stmts, nil
}
