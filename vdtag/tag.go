package vdtag

import "context"

// Comment is one comment span reported by a [Tokenizer].
type Comment struct {
	Content   string
	StartLine int
	EndLine   int
	// IndentIndex is the 0-based column of the comment opener. It is only
	// meaningful for single-line comments.
	IndentIndex int
	// SingleLine marks line comments (e.g. "//" or "#"), which may be
	// merged with their neighbours. Block comments are never merged.
	SingleLine bool
}

// Group is an ordered list of owner identifiers.
type Group []string

// Tag is a validated span of code bounded by a start and an end annotation.
type Tag struct {
	OwnerGroups       []Group  `json:"ownerGroups"       yaml:"ownerGroups"`
	Content           []string `json:"content"           yaml:"content"`
	StartLine         int      `json:"startLine"         yaml:"startLine"`
	EndLine           int      `json:"endLine"           yaml:"endLine"`
	TagAnnotationLine int      `json:"tagAnnotationLine" yaml:"tagAnnotationLine"`
}

// Tokenizer turns source text into comment spans.
type Tokenizer interface {
	Comments(ctx context.Context, content []byte) ([]Comment, error)
}

// Matcher classifies the text of a single comment. The line passed to Match
// is the first line of the comment and is used for error messages.
//
// Implementations return [NoTag], [EndTag] or [StartTag]. An annotation that
// is recognizable but not well-formed is reported as a [*ParseError] named
// [NameMalformedAnnotation].
type Matcher interface {
	Match(content, filePath string, line int) (Match, error)
}

// Match is the result of a [Matcher]. It is one of [NoTag], [EndTag] or
// [StartTag].
type Match interface {
	isMatch()
}

// NoTag means the comment carries no annotation.
type NoTag struct{}

// EndTag means the comment closes a tagged span.
type EndTag struct{}

// StartTag means the comment opens a tagged span.
type StartTag struct {
	OwnerGroups []Group
	// LineOffset is the line of the annotation relative to the first line
	// of the comment.
	LineOffset int
}

func (NoTag) isMatch()    {}
func (EndTag) isMatch()   {}
func (StartTag) isMatch() {}
