package vdtag

import (
	"errors"
	"fmt"
)

// ErrorName identifies the kind of a [ParseError].
type ErrorName string

// Parse error kinds.
const (
	NameMultipleCommentsOnSingleLine   ErrorName = "multiple-comments-on-single-line"
	NameNoEndAnnotation                ErrorName = "no-end-annotation"
	NameEndAnnotationUsedMultipleTimes ErrorName = "end-annotation-used-multiple-times"
	NameMalformedAnnotation            ErrorName = "malformed-annotation-syntax"
)

// Sentinel errors matched by [ParseError] values via [errors.Is].
var (
	ErrParseTag                       = errors.New("parse tag")
	ErrMultipleCommentsOnSingleLine   = errors.New(string(NameMultipleCommentsOnSingleLine))
	ErrNoEndAnnotation                = errors.New(string(NameNoEndAnnotation))
	ErrEndAnnotationUsedMultipleTimes = errors.New(string(NameEndAnnotationUsedMultipleTimes))
	ErrMalformedAnnotation            = errors.New(string(NameMalformedAnnotation))
)

var sentinels = map[ErrorName]error{
	NameMultipleCommentsOnSingleLine:   ErrMultipleCommentsOnSingleLine,
	NameNoEndAnnotation:                ErrNoEndAnnotation,
	NameEndAnnotationUsedMultipleTimes: ErrEndAnnotationUsedMultipleTimes,
	NameMalformedAnnotation:            ErrMalformedAnnotation,
}

// ParseError is the single fatal error produced for a file whose annotations
// cannot be turned into tags.
type ParseError struct {
	Name        ErrorName `json:"errorName"         yaml:"errorName"`
	FilePath    string    `json:"filePath"          yaml:"filePath"`
	Explanation string    `json:"clientExplanation" yaml:"clientExplanation"`
	Line        int       `json:"line"              yaml:"line"`
}

// NewParseError returns a [*ParseError] whose explanation is reason followed
// by the file and line.
func NewParseError(name ErrorName, filePath string, line int, reason string) *ParseError {
	return &ParseError{
		Name:        name,
		FilePath:    filePath,
		Line:        line,
		Explanation: fmt.Sprintf("%s File: %s, line number: %d", reason, filePath, line),
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Explanation
}

// Unwrap returns [ErrParseTag] and the sentinel for the error's kind.
func (e *ParseError) Unwrap() []error {
	errs := []error{ErrParseTag}
	if s, ok := sentinels[e.Name]; ok {
		errs = append(errs, s)
	}

	return errs
}
