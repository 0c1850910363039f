// Package annotation implements the default annotation grammar used to
// classify comments for [vdtag.Extractor].
//
// An annotation is a marker token (by default "@VD") written as its own word
// inside a comment, followed by either the keyword "end" or one or more
// owner groups and the keyword "start":
//
//	// @VD end
//	// @VD alice start
//	// @VD alice,bob|carol start
//
// Owner groups are separated by "|"; owners within a group by "," or spaces.
// A marker glued to other text (such as "//@VD") is not an annotation.
// Anything else following a marker is reported as
// [vdtag.NameMalformedAnnotation].
package annotation

import (
	"fmt"
	"regexp"
	"strings"

	"go.jacobcolvin.com/vivadoc/vdtag"
)

// DefaultMarker is the marker token used when none is configured.
const DefaultMarker = "@VD"

const (
	keywordStart = "start"
	keywordEnd   = "end"
)

var ownerExpr = regexp.MustCompile(`^@?[A-Za-z0-9][A-Za-z0-9_.\-/]*$`)

// Matcher classifies comments according to the annotation grammar.
// It is stateless and safe for concurrent use.
//
// Create instances with [New].
type Matcher struct {
	marker string
}

// Option configures a [Matcher].
type Option func(*Matcher)

// WithMarker sets the marker token. Empty values are ignored.
func WithMarker(marker string) Option {
	return func(m *Matcher) {
		marker = strings.TrimSpace(marker)
		if marker != "" {
			m.marker = marker
		}
	}
}

// New creates a [Matcher].
func New(opts ...Option) *Matcher {
	m := &Matcher{marker: DefaultMarker}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Marker returns the configured marker token.
func (m *Matcher) Marker() string {
	return m.marker
}

// Match implements [vdtag.Matcher]. The returned [vdtag.StartTag] offset is
// the index of the comment line holding the marker.
func (m *Matcher) Match(content, filePath string, line int) (vdtag.Match, error) {
	var (
		found  bool
		offset int
		rest   []string
	)

	for i, text := range strings.Split(content, "\n") {
		fields := strings.Fields(text)

		for j, field := range fields {
			if field != m.marker {
				continue
			}

			if found {
				return nil, m.malformed(filePath, line+i,
					fmt.Sprintf("Only one %s annotation is allowed per comment.", m.marker))
			}

			found = true
			offset = i
			rest = fields[j+1:]
		}
	}

	if !found {
		return vdtag.NoTag{}, nil
	}

	return m.classify(trimCloser(rest), filePath, line+offset, offset)
}

// classify interprets the words that follow the marker.
func (m *Matcher) classify(words []string, filePath string, line, offset int) (vdtag.Match, error) {
	if len(words) == 0 {
		return nil, m.malformed(filePath, line,
			fmt.Sprintf("A %s annotation needs owners followed by %q, or %q.", m.marker, keywordStart, keywordEnd))
	}

	owners, keyword := words[:len(words)-1], words[len(words)-1]

	switch keyword {
	case keywordEnd:
		if len(owners) > 0 {
			return nil, m.malformed(filePath, line,
				fmt.Sprintf("An end annotation must be exactly %q.", m.marker+" "+keywordEnd))
		}

		return vdtag.EndTag{}, nil

	case keywordStart:
		groups, problem := parseOwnerGroups(owners)
		if problem != "" {
			return nil, m.malformed(filePath, line, problem)
		}

		return vdtag.StartTag{OwnerGroups: groups, LineOffset: offset}, nil
	}

	return nil, m.malformed(filePath, line,
		fmt.Sprintf("A %s annotation must end with %q or %q, got %q.", m.marker, keywordStart, keywordEnd, keyword))
}

func (m *Matcher) malformed(filePath string, line int, reason string) *vdtag.ParseError {
	return vdtag.NewParseError(vdtag.NameMalformedAnnotation, filePath, line, reason)
}

// parseOwnerGroups splits owner words into groups on "|" and owners on ","
// or whitespace. A non-empty problem describes why words are invalid.
func parseOwnerGroups(words []string) (groups []vdtag.Group, problem string) {
	if len(words) == 0 {
		return nil, "A start annotation needs at least one owner."
	}

	parts := strings.Split(strings.Join(words, " "), "|")
	groups = make([]vdtag.Group, 0, len(parts))

	for _, part := range parts {
		names := strings.FieldsFunc(part, func(r rune) bool {
			return r == ',' || r == ' '
		})

		if len(names) == 0 {
			return nil, `Owner groups separated by "|" must not be empty.`
		}

		group := make(vdtag.Group, 0, len(names))

		for _, name := range names {
			if !ownerExpr.MatchString(name) {
				return nil, fmt.Sprintf("Invalid owner %q.", name)
			}

			group = append(group, strings.TrimPrefix(name, "@"))
		}

		groups = append(groups, group)
	}

	return groups, ""
}

// trimCloser drops a trailing block-comment closer ("*/") from words.
func trimCloser(words []string) []string {
	if len(words) == 0 {
		return words
	}

	last := len(words) - 1
	if words[last] == "*/" {
		return words[:last]
	}

	trimmed := strings.TrimSuffix(words[last], "*/")
	if trimmed == words[last] {
		return words
	}

	out := append([]string(nil), words[:last]...)

	return append(out, trimmed)
}
