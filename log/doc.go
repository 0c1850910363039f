// Package log builds [log/slog] handlers from level and format names.
//
// Three formats are supported: [FormatJSON] and [FormatLogfmt] use the slog
// built-in handlers, and [FormatText] uses charm log for human-readable
// terminal output. [Config] binds the level and format to CLI flags:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	if err != nil {
//		return err
//	}
//
//	slog.SetDefault(slog.New(handler))
package log
