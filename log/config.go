package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds the CLI flag names used by [Config].
type Flags struct {
	Level  string
	Format string
}

// Config holds log level and format values bound to CLI flags.
//
// Create instances with [NewConfig], register flags with
// [Config.RegisterFlags], then build a logger with [Config.NewLogger].
type Config struct {
	Flags  Flags
	Level  string
	Format string
}

// NewConfig returns a [Config] using the "log-level" and "log-format" flag
// names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Level:  "log-level",
			Format: "log-format",
		},
		Level:  string(LevelInfo),
		Format: string(FormatText),
	}
}

// RegisterFlags adds the logging flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, c.Level,
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, c.Format,
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))
}

// RegisterCompletions registers shell completions for the logging flags.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	return nil
}

// NewHandler creates a [Handler] writing to w from the configured strings.
func (c *Config) NewHandler(w io.Writer) (Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}

// NewLogger creates a [*slog.Logger] writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	h, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(h), nil
}
