package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rhino1998/lox/pkg/lox"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:      "lox",
		Usage:     "The Lox interpreter",
		ArgsUsage: "[script]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load settings from a YAML file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "log pipeline stages at debug level",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			switch c.Args().Len() {
			case 0:
				return repl(ctx, c)
			case 1:
				return runFile(ctx, c, c.Args().First())
			default:
				return &lox.UsageError{Message: "Usage: lox [script]"}
			}
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Execute a Lox script",
				ArgsUsage: "FILE",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return &lox.UsageError{Message: "Usage: lox run FILE"}
					}

					return runFile(ctx, c, c.Args().First())
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive session",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 0 {
						return &lox.UsageError{Message: "Usage: lox repl"}
					}

					return repl(ctx, c)
				},
			},
			{
				Name:      "tokens",
				Usage:     "Print the tokens of a Lox script",
				ArgsUsage: "FILE",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return &lox.UsageError{Message: "Usage: lox tokens FILE"}
					}

					runner, source, err := load(c, c.Args().First())
					if err != nil {
						return err
					}

					tokens, err := runner.Tokens(source)
					for _, tok := range tokens {
						fmt.Fprintln(runner.Config.Stdout, tok)
					}

					return err
				},
			},
			{
				Name:      "parse",
				Usage:     "Print the statements of a Lox script in prefix form",
				ArgsUsage: "FILE",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return &lox.UsageError{Message: "Usage: lox parse FILE"}
					}

					runner, source, err := load(c, c.Args().First())
					if err != nil {
						return err
					}

					stmts, err := runner.Parse(source)
					if err != nil {
						return err
					}

					_, err = fmt.Fprint(runner.Config.Stdout, parser.PrintProgram(stmts))
					return err
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	code := lox.ExitCode(err)
	if code == lox.ExitFailure || code == lox.ExitUsage {
		// static and runtime errors were already reported by the runner
		fmt.Fprintln(os.Stderr, err)
	}

	os.Exit(code)
}

func newRunner(c *cli.Command) (*lox.Runner, error) {
	var config lox.Config
	if path := c.String("config"); path != "" {
		var err error
		config, err = lox.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if c.Bool("debug") {
		config.LogLevel = "debug"
	}

	level, err := config.Level()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	runner, err := lox.New(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}

	return runner, nil
}

func load(c *cli.Command, path string) (*lox.Runner, string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read script: %w", err)
	}

	runner, err := newRunner(c)
	if err != nil {
		return nil, "", err
	}

	return runner, string(source), nil
}

func runFile(ctx context.Context, c *cli.Command, path string) error {
	runner, source, err := load(c, path)
	if err != nil {
		return err
	}

	_, err = runner.Run(ctx, source)
	return err
}

func repl(ctx context.Context, c *cli.Command) error {
	runner, err := newRunner(c)
	if err != nil {
		return err
	}

	return runner.REPL(ctx, os.Stdin)
}
