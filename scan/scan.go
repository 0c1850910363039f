package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/vivadoc/vdtag"
	"go.jacobcolvin.com/vivadoc/vdtag/annotation"
	"go.jacobcolvin.com/vivadoc/vdtag/lang"
)

// Sentinel errors returned by the scanner.
var (
	ErrReadInput = errors.New("read input")
	ErrExtract   = errors.New("extract tags")
)

// Scanner extracts tags from files on disk, several files at a time.
//
// Create instances with [NewScanner].
type Scanner struct {
	matcher     vdtag.Matcher
	registry    lang.Registry
	logger      *slog.Logger
	exclude     []string
	concurrency int
}

// Option configures a [Scanner].
type Option func(*Scanner)

// WithMatcher sets the annotation grammar. The default is [annotation.New].
func WithMatcher(m vdtag.Matcher) Option {
	return func(s *Scanner) {
		s.matcher = m
	}
}

// WithRegistry sets the languages considered when scanning. The default is
// [lang.DefaultRegistry].
func WithRegistry(r lang.Registry) Option {
	return func(s *Scanner) {
		s.registry = r
	}
}

// WithLogger sets the logger. The default is [slog.Default]; nil is
// ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExclude skips files and directories whose base name matches any of
// the given [filepath.Match] patterns.
func WithExclude(patterns ...string) Option {
	return func(s *Scanner) {
		s.exclude = append(s.exclude, patterns...)
	}
}

// WithConcurrency sets how many files are processed at once. Values less
// than 1 use [runtime.GOMAXPROCS].
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		s.concurrency = n
	}
}

// NewScanner creates a [Scanner] with the given options.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		matcher:  annotation.New(),
		registry: lang.DefaultRegistry(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.concurrency < 1 {
		s.concurrency = runtime.GOMAXPROCS(0)
	}

	return s
}

// Scan extracts tags from every supported file under paths. Directories are
// walked recursively, skipping hidden and excluded entries.
//
// Annotation errors are recorded per file in the [Report] and do not stop
// other files. Read and tokenizer failures abort the scan.
func (s *Scanner) Scan(ctx context.Context, paths ...string) (*Report, error) {
	files, err := s.collect(paths)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, f := range files {
		g.Go(func() error {
			content, err := os.ReadFile(f.path)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrReadInput, err)
			}

			res, err := s.scanFile(ctx, f.path, f.lang, content)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	report := NewReport(results)

	s.logger.Info("scan complete",
		slog.Int("files", report.Summary.Files),
		slog.Int("tags", report.Summary.Tags),
		slog.Int("errors", report.Summary.Errors),
	)

	return report, nil
}

// ScanContent extracts tags from content, choosing the language from path.
// It is used for input that does not come from disk, such as stdin.
func (s *Scanner) ScanContent(ctx context.Context, path string, content []byte) (FileResult, error) {
	l, err := s.registry.ForPath(path)
	if err != nil {
		return FileResult{}, err
	}

	return s.scanFile(ctx, path, l, content)
}

func (s *Scanner) scanFile(ctx context.Context, path string, l *lang.Language, content []byte) (FileResult, error) {
	res := FileResult{Path: path, Language: l.Name, Tags: []vdtag.Tag{}}

	extractor := vdtag.NewExtractor(s.matcher,
		vdtag.WithLogger(s.logger.With(slog.String("language", l.Name))))

	tags, err := extractor.Extract(ctx, l, path, content)

	var perr *vdtag.ParseError

	switch {
	case errors.As(err, &perr):
		s.logger.Warn("invalid annotations",
			slog.String("file", path),
			slog.String("error", string(perr.Name)),
			slog.Int("line", perr.Line),
		)

		res.Error = perr

		return res, nil

	case err != nil:
		return FileResult{}, fmt.Errorf("%w: %w", ErrExtract, err)
	}

	res.Tags = tags

	return res, nil
}

type sourceFile struct {
	lang *lang.Language
	path string
}

// collect resolves paths into the de-duplicated list of files to scan.
func (s *Scanner) collect(paths []string) ([]sourceFile, error) {
	var (
		files []sourceFile
		seen  = make(map[string]bool)
	)

	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}

		seen[path] = true

		l, err := s.registry.ForPath(path)
		if err != nil {
			s.logger.Debug("skipping file", slog.String("file", path), slog.Any("error", err))

			return
		}

		files = append(files, sourceFile{path: path, lang: l})
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		if !info.IsDir() {
			add(root)

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root && s.skip(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if !d.IsDir() {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
	}

	slices.SortFunc(files, func(a, b sourceFile) int {
		return strings.Compare(a.path, b.path)
	})

	return files, nil
}

// skip reports whether a directory entry is hidden or excluded.
func (s *Scanner) skip(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}

	for _, pattern := range s.exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}

	return false
}
