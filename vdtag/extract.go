package vdtag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrTokenize wraps failures returned by a [Tokenizer].
var ErrTokenize = errors.New("tokenize")

// Extractor turns the comments of one file into tags.
//
// An Extractor holds no per-file state and is safe for concurrent use.
// Create instances with [NewExtractor].
type Extractor struct {
	matcher Matcher
	logger  *slog.Logger
}

// Option configures an [Extractor].
type Option func(*Extractor)

// WithLogger sets the logger used for debug output. The default is
// [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an [Extractor] that classifies comments with m.
func NewExtractor(m Matcher, opts ...Option) *Extractor {
	e := &Extractor{
		matcher: m,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract tokenizes content with tok and returns its tags.
func (e *Extractor) Extract(ctx context.Context, tok Tokenizer, filePath string, content []byte) ([]Tag, error) {
	comments, err := tok.Comments(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTokenize, filePath, err)
	}

	return e.ExtractComments(filePath, string(content), comments)
}

// ExtractComments runs the tag pipeline over already tokenized comments:
// raw index, squish and assemble, reduce, then pair. Any error is a
// [*ParseError] (or an error from the [Matcher]) and no tags are returned
// with it.
func (e *Extractor) ExtractComments(filePath, content string, comments []Comment) ([]Tag, error) {
	raw := NewRawFileAstFromComments(comments)

	fileAst := raw.FileAst()

	reduced, err := fileAst.Reduce(e.matcher, filePath)
	if err != nil {
		return nil, err
	}

	tags, err := reduced.Tags(content, filePath)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted tags",
		slog.String("file", filePath),
		slog.Int("comments", len(comments)),
		slog.Int("annotations", len(reduced.Comments)),
		slog.Int("tags", len(tags)),
	)

	return tags, nil
}
