package lox_test

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/lox/pkg/interpreter"
	"github.com/rhino1998/lox/pkg/lox"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T, out *bytes.Buffer, config lox.Config) *lox.Runner {
	config.Stdout = out
	config.Stderr = out

	runner, err := lox.New(slogt.New(t), config)
	require.NoError(t, err)

	return runner
}

func TestScripts(t *testing.T) {
	ctx := context.Background()
	t.Parallel()

	dir := os.DirFS("./testdata/")
	testFiles, err := fs.Glob(dir, "*.txt")
	if err != nil {
		t.Fatal(err)
	}

	for _, testFile := range testFiles {
		name := strings.Split(testFile, ".")[0]
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			testData, err := fs.ReadFile(dir, testFile)
			r.NoError(err)

			parts := bytes.SplitN(testData, []byte("\n---\n"), 2)
			r.Len(parts, 2)
			source := string(bytes.TrimSpace(parts[0]))
			expected := strings.TrimSpace(string(parts[1]))

			var output bytes.Buffer
			runner := newRunner(t, &output, lox.Config{})

			_, err = runner.Run(ctx, source)
			switch {
			case strings.Contains(name, "runtime"):
				r.Equal(lox.ExitRuntime, lox.ExitCode(err))
			case strings.Contains(name, "errors"):
				r.Equal(lox.ExitStatic, lox.ExitCode(err))
			default:
				r.NoError(err)
			}

			r.Equal(expected, strings.TrimSpace(output.String()))
		})
	}
}

func TestStaticErrorsPreventExecution(t *testing.T) {
	r := require.New(t)

	var output bytes.Buffer
	runner := newRunner(t, &output, lox.Config{})

	_, err := runner.Run(context.Background(), "print \"side effect\";\nprint ;")
	r.Error(err)

	var staticErr *lox.StaticError
	r.ErrorAs(err, &staticErr)
	r.NotContains(output.String(), "side effect")
	r.Equal("[line 2] Error at ';': Expect expression.\n", output.String())
}

func TestRunnerKeepsGlobalsAcrossUnits(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	var output bytes.Buffer
	runner := newRunner(t, &output, lox.Config{})

	_, err := runner.Run(ctx, "var count = 1; fun inc() { count = count + 1; return count; }")
	r.NoError(err)

	_, err = runner.Run(ctx, "inc(); nil + 1;")
	r.Equal(lox.ExitRuntime, lox.ExitCode(err))

	val, err := runner.Run(ctx, "inc();")
	r.NoError(err)
	r.Equal(3.0, val)
}

func TestREPL(t *testing.T) {
	r := require.New(t)

	var output bytes.Buffer
	runner := newRunner(t, &output, lox.Config{Prompt: ">> ", Echo: true})

	input := strings.Join([]string{
		"var a = 1;",
		"",
		"a + 1;",
		"print a +;",
		"a = a + \"x\";",
		"print a;",
		"fun f() {}",
		"f;",
	}, "\n")

	err := runner.REPL(context.Background(), strings.NewReader(input))
	r.NoError(err)

	r.Equal(strings.Join([]string{
		">> >> >> 2",
		">> [line 1] Error at ';': Expect expression.",
		">> Operands of '+' must be two numbers or two strings, got number 1 and string \"x\".",
		"[line 1]",
		">> 1",
		">> >> <fn f>",
		">> ",
		"",
	}, "\n"), output.String())
}

func TestREPLStopsWhenCancelled(t *testing.T) {
	r := require.New(t)

	var output bytes.Buffer
	runner := newRunner(t, &output, lox.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.REPL(ctx, strings.NewReader("print 1;\n"))
	r.ErrorIs(err, context.Canceled)
	r.Equal(lox.ExitInterrupted, lox.ExitCode(err))
	r.NotContains(output.String(), "1\n")
}

func TestNativesCanBeAdded(t *testing.T) {
	r := require.New(t)

	var output bytes.Buffer
	runner := newRunner(t, &output, lox.Config{})

	runner.Interpreter().Define("answer", interpreter.NewNative("answer", 0, func([]interpreter.Value) (interpreter.Value, error) {
		return 42.0, nil
	}))

	_, err := runner.Run(context.Background(), "print answer();")
	r.NoError(err)
	r.Equal("42\n", output.String())
}

func TestExitCode(t *testing.T) {
	r := require.New(t)

	r.Equal(lox.ExitOK, lox.ExitCode(nil))
	r.Equal(lox.ExitStatic, lox.ExitCode(&lox.StaticError{Err: os.ErrInvalid}))
	r.Equal(lox.ExitRuntime, lox.ExitCode(&interpreter.RuntimeError{Message: "boom"}))
	r.Equal(lox.ExitUsage, lox.ExitCode(&lox.UsageError{Message: "usage"}))
	r.Equal(lox.ExitFailure, lox.ExitCode(os.ErrNotExist))
	r.Equal(lox.ExitInterrupted, lox.ExitCode(fmt.Errorf("reading input: %w", context.Canceled)))
}

func TestLoadConfig(t *testing.T) {
	r := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "lox.yaml")
	r.NoError(os.WriteFile(path, []byte("prompt: \"lox> \"\necho: true\nlog_level: debug\n"), 0o644))

	config, err := lox.LoadConfig(path)
	r.NoError(err)
	r.Equal("lox> ", config.Prompt)
	r.True(config.Echo)

	r.NoError(config.Validate(slogt.New(t)))
	level, err := config.Level()
	r.NoError(err)
	r.Equal("DEBUG", level.String())
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "lox.yaml")
	r.NoError(os.WriteFile(path, []byte("promt: oops\n"), 0o644))

	_, err := lox.LoadConfig(path)
	r.Error(err)
}

func TestConfigDefaultsAndValidation(t *testing.T) {
	r := require.New(t)

	var config lox.Config
	r.NoError(config.Validate(slogt.New(t)))
	r.Equal(lox.DefaultPrompt, config.Prompt)
	r.NotNil(config.Stdout)

	level, err := config.Level()
	r.NoError(err)
	r.Equal("WARN", level.String())

	bad := lox.Config{LogLevel: "chatty"}
	r.Error(bad.Validate(slogt.New(t)))

	_, err = lox.New(slogt.New(t), bad)
	r.Error(err)
}
