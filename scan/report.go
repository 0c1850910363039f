package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/vivadoc/vdtag"
)

// OutputFormat selects how a [Report] is encoded.
type OutputFormat string

// Output formats.
const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ErrWriteOutput wraps failures to encode or write a [Report].
var ErrWriteOutput = errors.New("write output")

var allOutputFormats = []OutputFormat{OutputJSON, OutputYAML}

// FileResult holds the outcome for one file: its tags, or the parse error
// that rejected it.
type FileResult struct {
	Error    *vdtag.ParseError `json:"error,omitempty" yaml:"error,omitempty"`
	Path     string            `json:"path"            yaml:"path"`
	Language string            `json:"language"        yaml:"language"`
	Tags     []vdtag.Tag       `json:"tags"            yaml:"tags"`
}

// Summary counts the contents of a [Report].
type Summary struct {
	Files  int `json:"files"  yaml:"files"`
	Tags   int `json:"tags"   yaml:"tags"`
	Errors int `json:"errors" yaml:"errors"`
}

// Report is the result of a scan.
type Report struct {
	Files   []FileResult `json:"files"   yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// NewReport builds a [Report] from results, sorted by path.
func NewReport(results []FileResult) *Report {
	files := slices.Clone(results)
	slices.SortFunc(files, func(a, b FileResult) int {
		return strings.Compare(a.Path, b.Path)
	})

	r := &Report{Files: files}
	if r.Files == nil {
		r.Files = []FileResult{}
	}

	r.Summary.Files = len(files)

	for _, f := range files {
		r.Summary.Tags += len(f.Tags)

		if f.Error != nil {
			r.Summary.Errors++
		}
	}

	return r
}

// Err joins the parse errors of all files, or returns nil.
func (r *Report) Err() error {
	var errs []error

	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}

	return errors.Join(errs...)
}

// Encode writes r to w in the given format.
func (r *Report) Encode(w io.Writer, format OutputFormat) error {
	var (
		out []byte
		err error
	)

	switch format {
	case OutputJSON:
		out, err = json.MarshalIndent(r, "", "  ")
		out = append(out, '\n')
	case OutputYAML:
		out, err = yaml.Marshal(r)
	default:
		return fmt.Errorf("%w: unknown format %q", ErrWriteOutput, format)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// ParseOutputFormat parses a case-insensitive output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(s))
	if slices.Contains(allOutputFormats, f) {
		return f, nil
	}

	return "", fmt.Errorf("%w: unknown output format %q", ErrInvalidOption, s)
}

// ReportSchema returns the JSON Schema describing an encoded [Report].
func ReportSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[Report](nil)
	if err != nil {
		return nil, fmt.Errorf("infer report schema: %w", err)
	}

	schema.Schema = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "vivadoc report"

	return schema, nil
}
