package scan

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/vivadoc/vdtag/annotation"
	"go.jacobcolvin.com/vivadoc/vdtag/lang"
)

// DefaultConfigFile is read when no config file is named explicitly and it
// exists in the working directory.
const DefaultConfigFile = ".vivadoc.yaml"

var (
	// ErrInvalidOption indicates an invalid option value.
	ErrInvalidOption = errors.New("invalid option")
	// ErrConfigFile indicates the config file could not be loaded.
	ErrConfigFile = errors.New("config file")
)

// Flags holds CLI flag names for scan configuration.
type Flags struct {
	Config      string
	Output      string
	Format      string
	Marker      string
	Concurrency string
	Exclude     string
	Languages   string
	FailOnError string
}

// FileConfig is the schema of the YAML config file.
type FileConfig struct {
	Marker      string   `yaml:"marker"`
	Format      string   `yaml:"format"`
	Exclude     []string `yaml:"exclude"`
	Languages   []string `yaml:"languages"`
	Concurrency int      `yaml:"concurrency"`
	FailOnError bool     `yaml:"failOnError"`
}

// Config holds scan settings from CLI flags and an optional YAML file.
//
// Create instances with [NewConfig], register flags with
// [Config.RegisterFlags], merge the config file with [Config.Load], then
// build a [Scanner] with [Config.NewScanner].
type Config struct {
	Flags       Flags
	ConfigFile  string
	Output      string
	Format      string
	Marker      string
	Exclude     []string
	Languages   []string
	Concurrency int
	FailOnError bool
}

// NewConfig returns a [Config] with default flag names and values.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Config:      "config",
			Output:      "output",
			Format:      "format",
			Marker:      "marker",
			Concurrency: "concurrency",
			Exclude:     "exclude",
			Languages:   "languages",
			FailOnError: "fail-on-error",
		},
		Output: "-",
		Format: string(OutputJSON),
		Marker: annotation.DefaultMarker,
	}
}

// RegisterFlags adds scan flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.ConfigFile, c.Flags.Config, "c", "",
		fmt.Sprintf("YAML config file (default %s if present)", DefaultConfigFile))
	flags.StringVarP(&c.Output, c.Flags.Output, "o", c.Output,
		"output file path (- for stdout)")
	flags.StringVarP(&c.Format, c.Flags.Format, "f", c.Format,
		"output format, one of: json, yaml")
	flags.StringVar(&c.Marker, c.Flags.Marker, c.Marker,
		"annotation marker token")
	flags.IntVarP(&c.Concurrency, c.Flags.Concurrency, "j", 0,
		"files processed in parallel (0 for GOMAXPROCS)")
	flags.StringSliceVar(&c.Exclude, c.Flags.Exclude, nil,
		"file or directory name patterns to skip")
	flags.StringSliceVar(&c.Languages, c.Flags.Languages, nil,
		"languages to scan (default all)")
	flags.BoolVar(&c.FailOnError, c.Flags.FailOnError, false,
		"exit non-zero when any file has invalid annotations")
}

// RegisterCompletions registers shell completions for scan flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	completions := map[string][]string{
		c.Flags.Format:    {string(OutputJSON), string(OutputYAML)},
		c.Flags.Languages: lang.DefaultRegistry().Names(),
	}

	for flag, values := range completions {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Marker, c.Flags.Concurrency, c.Flags.Exclude} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Config,
		cobra.FixedCompletions([]string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Config, err)
	}

	return nil
}

// Load reads the config file and applies every value whose flag was not set
// explicitly in flags. A missing [DefaultConfigFile] is not an error.
func (c *Config) Load(flags *pflag.FlagSet) error {
	path := c.ConfigFile
	if path == "" {
		path = DefaultConfigFile

		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	var fc FileConfig

	err = yaml.UnmarshalWithOptions(data, &fc, yaml.Strict())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
	}

	c.apply(fc, flags)

	return nil
}

func (c *Config) apply(fc FileConfig, flags *pflag.FlagSet) {
	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}

	if fc.Marker != "" && !changed(c.Flags.Marker) {
		c.Marker = fc.Marker
	}

	if fc.Format != "" && !changed(c.Flags.Format) {
		c.Format = fc.Format
	}

	if fc.Concurrency != 0 && !changed(c.Flags.Concurrency) {
		c.Concurrency = fc.Concurrency
	}

	if fc.Exclude != nil && !changed(c.Flags.Exclude) {
		c.Exclude = fc.Exclude
	}

	if fc.Languages != nil && !changed(c.Flags.Languages) {
		c.Languages = fc.Languages
	}

	if fc.FailOnError && !changed(c.Flags.FailOnError) {
		c.FailOnError = true
	}
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() (OutputFormat, error) {
	return ParseOutputFormat(c.Format)
}

// NewScanner creates a [Scanner] using this [Config].
func (c *Config) NewScanner(logger *slog.Logger) (*Scanner, error) {
	if c.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency must not be negative", ErrInvalidOption)
	}

	registry, err := c.registry()
	if err != nil {
		return nil, err
	}

	return NewScanner(
		WithMatcher(annotation.New(annotation.WithMarker(c.Marker))),
		WithRegistry(registry),
		WithExclude(c.Exclude...),
		WithConcurrency(c.Concurrency),
		WithLogger(logger),
	), nil
}

// registry returns the default registry limited to the configured
// languages.
func (c *Config) registry() (lang.Registry, error) {
	all := lang.DefaultRegistry()
	if len(c.Languages) == 0 {
		return all, nil
	}

	byName := make(map[string]*lang.Language)
	for _, l := range all {
		byName[l.Name] = l
	}

	r := make(lang.Registry)

	for _, name := range c.Languages {
		l, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown language %q", ErrInvalidOption, name)
		}

		r.Add(l)
	}

	return r, nil
}
