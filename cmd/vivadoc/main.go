// Command vivadoc extracts code ownership annotations from source comments.
//
// # Usage
//
//	vivadoc scan [flags] [path ...]
//	vivadoc schema
//	vivadoc version
//
// An ownership region opens with a comment such as
//
//	// @VD alice,bob|carol start
//
// and closes with the next
//
//	// @VD end
//
// The scan command writes a JSON or YAML report listing every region with its
// owner groups and content, and any file whose annotations are invalid.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"go.jacobcolvin.com/vivadoc/log"
	"go.jacobcolvin.com/vivadoc/profile"
	"go.jacobcolvin.com/vivadoc/scan"
	"go.jacobcolvin.com/vivadoc/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// cli holds the state shared by all subcommands of one invocation.
type cli struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logCfg   *log.Config
	profCfg  *profile.Config
	profiler *profile.Profiler
	logger   *slog.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := &cli{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		logCfg:  log.NewConfig(),
		profCfg: profile.NewConfig(),
		logger:  slog.New(slog.DiscardHandler),
	}

	rootCmd := c.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	if c.profiler != nil {
		err = errors.Join(err, c.profiler.Stop())
	}

	return err
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vivadoc",
		Short: "Extract code ownership annotations from source comments",
		Long: `vivadoc finds regions of source code claimed by owners through
"@VD <owners> start" and "@VD end" comments, and reports each region with its
owner groups and content.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.setup()
		},
	}

	c.logCfg.RegisterFlags(rootCmd.PersistentFlags())
	c.profCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(c.scanCmd(), c.schemaCmd(), c.versionCmd())

	for _, register := range []func(*cobra.Command) error{
		c.logCfg.RegisterCompletions,
		c.profCfg.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(c.stderr, "register completions: %v\n", err)
		}
	}

	return rootCmd
}

// setup builds the logger from the log flags and starts profiling.
func (c *cli) setup() error {
	logger, err := c.logCfg.NewLogger(c.stderr)
	if err != nil {
		return err
	}

	c.logger = logger

	p := c.profCfg.NewProfiler(logger)

	err = p.Start()
	if err != nil {
		return err
	}

	c.profiler = p

	return nil
}

func (c *cli) scanCmd() *cobra.Command {
	cfg := scan.NewConfig()

	var stdinName string

	cmd := &cobra.Command{
		Use:   "scan [flags] [path ...]",
		Short: "Report the ownership regions in files and directories",
		Long: `Scan walks the given files and directories (default ".") and reports the
ownership regions found in the comments of every supported source file.
Hidden entries are skipped. Use "-" to read one file from stdin, naming it
with --stdin-filename so its language can be detected.

Settings are read from --config, or from ` + scan.DefaultConfigFile + ` when it exists.
Flags take precedence over the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.scan(cmd.Context(), cmd.Flags(), cfg, stdinName, args)
		},
	}

	cfg.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&stdinName, "stdin-filename", "",
		"file name used to detect the language of stdin input")

	err := cfg.RegisterCompletions(cmd)
	if err != nil {
		fmt.Fprintf(c.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (c *cli) scan(ctx context.Context, flags *pflag.FlagSet, cfg *scan.Config, stdinName string, args []string) error {
	err := cfg.Load(flags)
	if err != nil {
		return err
	}

	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	scanner, err := cfg.NewScanner(c.logger)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	var (
		paths     []string
		readStdin bool
	)

	for _, arg := range args {
		if arg == "-" {
			readStdin = true

			continue
		}

		paths = append(paths, arg)
	}

	var results []scan.FileResult

	if len(paths) > 0 {
		report, err := scanner.Scan(ctx, paths...)
		if err != nil {
			return err
		}

		results = report.Files
	}

	if readStdin {
		res, err := c.scanStdin(ctx, scanner, stdinName)
		if err != nil {
			return err
		}

		results = append(results, res)
	}

	report := scan.NewReport(results)

	var buf bytes.Buffer

	err = report.Encode(&buf, format)
	if err != nil {
		return err
	}

	err = c.write(cfg.Output, buf.Bytes())
	if err != nil {
		return err
	}

	if cfg.FailOnError {
		return report.Err()
	}

	return nil
}

func (c *cli) scanStdin(ctx context.Context, scanner *scan.Scanner, name string) (scan.FileResult, error) {
	if name == "" {
		return scan.FileResult{}, fmt.Errorf("%w: --stdin-filename is required when reading stdin",
			scan.ErrInvalidOption)
	}

	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return scan.FileResult{}, fmt.Errorf("%w: stdin is a terminal", scan.ErrReadInput)
	}

	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return scan.FileResult{}, fmt.Errorf("%w: stdin: %w", scan.ErrReadInput, err)
	}

	return scanner.ScanContent(ctx, name, data)
}

// write sends out to stdout, or to the file at path unless path is "-".
func (c *cli) write(path string, out []byte) error {
	if path == "" || path == "-" {
		_, err := c.stdout.Write(out)
		if err != nil {
			return fmt.Errorf("%w: %w", scan.ErrWriteOutput, err)
		}

		return nil
	}

	err := os.WriteFile(path, out, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", scan.ErrWriteOutput, err)
	}

	c.logger.Debug("wrote report", slog.String("path", path))

	return nil
}

func (c *cli) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the scan report",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			schema, err := scan.ReportSchema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", scan.ErrWriteOutput, err)
			}

			return c.write("-", append(out, '\n'))
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := version.Get()

			var (
				out []byte
				err error
			)

			switch strings.ToLower(format) {
			case "text":
				out = fmt.Appendf(nil, "vivadoc %s (%s, %s, %s)\n",
					info.Version, info.Revision, info.GoVersion, info.Platform)
			case "json":
				out, err = json.MarshalIndent(info, "", "  ")
				out = append(out, '\n')
			case "yaml":
				out, err = yaml.Marshal(info)
			default:
				return fmt.Errorf("%w: unknown version format %q", scan.ErrInvalidOption, format)
			}

			if err != nil {
				return fmt.Errorf("%w: %w", scan.ErrWriteOutput, err)
			}

			return c.write("-", out)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format, one of: text, json, yaml")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions([]string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		fmt.Fprintf(c.stderr, "register completions: %v\n", err)
	}

	return cmd
}
