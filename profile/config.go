package profile

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration.
type Flags struct {
	Dir                  string
	CPUProfile           string
	HeapProfile          string
	GoroutineProfile     string
	BlockProfile         string
	MutexProfile         string
	BlockProfileRate     string
	MutexProfileFraction string
}

// Config holds profile output paths and sampling rates. A zero-value Config
// has all profiles disabled.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	Flags Flags

	// Dir is prepended to every relative profile path.
	Dir string

	// Output paths (empty = disabled).
	CPUProfile       string
	HeapProfile      string
	GoroutineProfile string
	BlockProfile     string
	MutexProfile     string

	BlockProfileRate     int
	MutexProfileFraction int
}

// NewConfig creates a [Config] with default flag names and all profiles
// disabled.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Dir:                  "profile-dir",
			CPUProfile:           "cpu-profile",
			HeapProfile:          "heap-profile",
			GoroutineProfile:     "goroutine-profile",
			BlockProfile:         "block-profile",
			MutexProfile:         "mutex-profile",
			BlockProfileRate:     "block-profile-rate",
			MutexProfileFraction: "mutex-profile-fraction",
		},
	}
}

// RegisterFlags adds profiling flags to flags. All of them are hidden from
// help output.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Dir, c.Flags.Dir, "", "directory for relative profile paths")
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write heap profile to file")
	flags.StringVar(&c.GoroutineProfile, c.Flags.GoroutineProfile, "", "write goroutine profile to file")
	flags.StringVar(&c.BlockProfile, c.Flags.BlockProfile, "", "write block profile to file")
	flags.StringVar(&c.MutexProfile, c.Flags.MutexProfile, "", "write mutex profile to file")
	flags.IntVar(&c.BlockProfileRate, c.Flags.BlockProfileRate, 1, "block profile rate (nanoseconds)")
	flags.IntVar(&c.MutexProfileFraction, c.Flags.MutexProfileFraction, 1, "mutex profile fraction (1/N sampling)")

	for _, name := range c.names() {
		must(flags.MarkHidden(name))
	}
}

// RegisterCompletions registers shell completions for profile flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, name := range []string{c.Flags.BlockProfileRate, c.Flags.MutexProfileFraction} {
		err := cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Dir,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Dir, err)
	}

	return nil
}

// NewProfiler creates a [Profiler] using this [Config]. A nil logger uses
// [slog.Default].
func (c *Config) NewProfiler(logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Profiler{
		Config: *c,
		logger: logger,
	}
}

func (c *Config) names() []string {
	return []string{
		c.Flags.Dir,
		c.Flags.CPUProfile,
		c.Flags.HeapProfile,
		c.Flags.GoroutineProfile,
		c.Flags.BlockProfile,
		c.Flags.MutexProfile,
		c.Flags.BlockProfileRate,
		c.Flags.MutexProfileFraction,
	}
}
