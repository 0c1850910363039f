package vdtag_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/vivadoc/vdtag"
)

// matcherFunc adapts a function to [vdtag.Matcher].
type matcherFunc func(content, filePath string, line int) (vdtag.Match, error)

func (f matcherFunc) Match(content, filePath string, line int) (vdtag.Match, error) {
	return f(content, filePath, line)
}

// keywordMatcher treats "start:<owner>@<offset>" as a start tag and "end" as
// an end tag.
var keywordMatcher = matcherFunc(func(content, _ string, _ int) (vdtag.Match, error) {
	switch {
	case content == "end":
		return vdtag.EndTag{}, nil
	case strings.HasPrefix(content, "start:"):
		owner, offset, _ := strings.Cut(strings.TrimPrefix(content, "start:"), "@")

		n := 0
		if offset != "" {
			n = int(offset[0] - '0')
		}

		return vdtag.StartTag{OwnerGroups: []vdtag.Group{{owner}}, LineOffset: n}, nil
	}

	return vdtag.NoTag{}, nil
})

func TestFileAstReduce(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		comments map[int][]vdtag.CommentNode
		want     map[int]vdtag.ReducedCommentNode
		wantErr  error
	}{
		"irrelevant comments are dropped": {
			comments: map[int][]vdtag.CommentNode{
				1: {{Content: "hello", StartLine: 1, EndLine: 1}},
			},
			want: map[int]vdtag.ReducedCommentNode{},
		},
		"start and end annotations": {
			comments: map[int][]vdtag.CommentNode{
				1: {{Content: "start:alice", StartLine: 1, EndLine: 1}},
				4: {{Content: "end", StartLine: 3, EndLine: 4}},
			},
			want: map[int]vdtag.ReducedCommentNode{
				1: {
					StartLine: 1,
					EndLine:   1,
					Data: vdtag.StartAnnotation{
						OwnerGroups:       []vdtag.Group{{"alice"}},
						TagAnnotationLine: 1,
					},
				},
				4: {StartLine: 3, EndLine: 4, Data: vdtag.EndAnnotation{}},
			},
		},
		"annotation line uses the offset within the comment": {
			comments: map[int][]vdtag.CommentNode{
				12: {{Content: "start:bob@1", StartLine: 10, EndLine: 12}},
			},
			want: map[int]vdtag.ReducedCommentNode{
				12: {
					StartLine: 10,
					EndLine:   12,
					Data: vdtag.StartAnnotation{
						OwnerGroups:       []vdtag.Group{{"bob"}},
						TagAnnotationLine: 11,
					},
				},
			},
		},
		"multiple comments on one line": {
			comments: map[int][]vdtag.CommentNode{
				2: {
					{Content: "hello", StartLine: 1, EndLine: 2},
					{Content: "world", StartLine: 2, EndLine: 2},
				},
			},
			wantErr: vdtag.ErrMultipleCommentsOnSingleLine,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := &vdtag.FileAst{Comments: tc.comments}

			got, err := f.Reduce(keywordMatcher, "main.js")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, err, vdtag.ErrParseTag)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Comments)
		})
	}
}

func TestFileAstReduceParseErrorShape(t *testing.T) {
	t.Parallel()

	f := &vdtag.FileAst{Comments: map[int][]vdtag.CommentNode{
		7: {
			{Content: "/* a */", StartLine: 7, EndLine: 7},
			{Content: "// b", StartLine: 7, EndLine: 7},
		},
	}}

	_, err := f.Reduce(keywordMatcher, "src/app.ts")

	var perr *vdtag.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, vdtag.NameMultipleCommentsOnSingleLine, perr.Name)
	assert.Equal(t, 7, perr.Line)
	assert.Equal(t, "src/app.ts", perr.FilePath)
	assert.Contains(t, perr.Error(), "File: src/app.ts, line number: 7")
}

func TestFileAstReduceMatcherError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	calls := 0

	m := matcherFunc(func(_, _ string, _ int) (vdtag.Match, error) {
		calls++

		return nil, errBoom
	})

	f := &vdtag.FileAst{Comments: map[int][]vdtag.CommentNode{
		1: {{Content: "a", StartLine: 1, EndLine: 1}},
		2: {{Content: "b", StartLine: 2, EndLine: 2}},
	}}

	got, err := f.Reduce(m, "main.js")
	require.ErrorIs(t, err, errBoom)
	assert.Nil(t, got)
	assert.Equal(t, 1, calls)
}
