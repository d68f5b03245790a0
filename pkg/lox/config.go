package lox

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultPrompt = "> "

type Config struct {
	// Prompt is shown before each interactive line.
	Prompt string `yaml:"prompt"`
	// Echo makes the interactive loop print the value of a line that ends
	// in an expression statement.
	Echo     bool   `yaml:"echo"`
	LogLevel string `yaml:"log_level"`

	Stdout io.Writer `yaml:"-"`
	Stderr io.Writer `yaml:"-"`
}

// LoadConfig decodes a YAML configuration file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var config Config

	f, err := os.Open(path)
	if err != nil {
		return config, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&config)
	if err != nil && err != io.EOF {
		return config, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	return config, nil
}

// Validate fills in defaults and rejects invalid settings.
func (c *Config) Validate(logger *slog.Logger) error {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}

	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}

	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	_, err := c.Level()
	if err != nil {
		return err
	}

	logger.Debug("config",
		slog.String("prompt", c.Prompt),
		slog.Bool("echo", c.Echo),
		slog.String("log_level", c.LogLevel),
	)

	return nil
}

// Level parses LogLevel, defaulting to warn.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}

	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return level, nil
}
