package vdtag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/vivadoc/vdtag"
)

func single(line, indent int, content string) vdtag.RawCommentNode {
	return vdtag.RawCommentNode{
		CommentNode: vdtag.CommentNode{Content: content, StartLine: line, EndLine: line},
		IndentIndex: indent,
	}
}

func TestRawFileAst(t *testing.T) {
	t.Parallel()

	t.Run("single-line comments keep the last write", func(t *testing.T) {
		t.Parallel()

		raw := vdtag.NewRawFileAst()
		raw.AddSingleLineComment(single(3, 0, "// first"))
		raw.AddSingleLineComment(single(3, 4, "// second"))

		require.Len(t, raw.SingleLineComments, 1)
		assert.Equal(t, "// second", raw.SingleLineComments[3].Content)
		assert.Equal(t, 4, raw.SingleLineComments[3].IndentIndex)
	})

	t.Run("multi-line comments accumulate per line", func(t *testing.T) {
		t.Parallel()

		raw := vdtag.NewRawFileAst()
		raw.AddMultilineComment(vdtag.CommentNode{Content: "/* a */", StartLine: 5, EndLine: 5})
		raw.AddMultilineComment(vdtag.CommentNode{Content: "/* b */", StartLine: 5, EndLine: 5})
		raw.AddMultilineComment(vdtag.CommentNode{Content: "/*\n*/", StartLine: 1, EndLine: 2})

		assert.Len(t, raw.MultiLineComments[5], 2)
		assert.Equal(t, "/* b */", raw.MultiLineComments[5][1].Content)
		assert.Len(t, raw.MultiLineComments[2], 1)
	})

	t.Run("from comments splits by kind", func(t *testing.T) {
		t.Parallel()

		raw := vdtag.NewRawFileAstFromComments([]vdtag.Comment{
			{Content: "// a", StartLine: 2, EndLine: 2, IndentIndex: 2, SingleLine: true},
			{Content: "/*\n*/", StartLine: 4, EndLine: 5},
		})

		require.Contains(t, raw.SingleLineComments, 2)
		assert.Equal(t, 2, raw.SingleLineComments[2].IndentIndex)
		require.Contains(t, raw.MultiLineComments, 5)
		assert.Equal(t, 4, raw.MultiLineComments[5][0].StartLine)
	})
}

func TestSquishSingleLineComments(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input map[int]vdtag.RawCommentNode
		want  map[int]vdtag.CommentNode
	}{
		"empty": {
			input: map[int]vdtag.RawCommentNode{},
			want:  map[int]vdtag.CommentNode{},
		},
		"adjacent with equal indent merge": {
			input: map[int]vdtag.RawCommentNode{
				1: single(1, 0, "// a"),
				2: single(2, 0, "// b"),
			},
			want: map[int]vdtag.CommentNode{
				2: {Content: "// a\n// b", StartLine: 1, EndLine: 2},
			},
		},
		"adjacent with different indent stay apart": {
			input: map[int]vdtag.RawCommentNode{
				1: single(1, 0, "// a"),
				2: single(2, 2, "// b"),
			},
			want: map[int]vdtag.CommentNode{
				1: {Content: "// a", StartLine: 1, EndLine: 1},
				2: {Content: "// b", StartLine: 2, EndLine: 2},
			},
		},
		"chain merges transitively": {
			input: map[int]vdtag.RawCommentNode{
				4: single(4, 2, "// a"),
				5: single(5, 2, "// b"),
				6: single(6, 2, "// c"),
			},
			want: map[int]vdtag.CommentNode{
				6: {Content: "// a\n// b\n// c", StartLine: 4, EndLine: 6},
			},
		},
		"gap breaks the chain": {
			input: map[int]vdtag.RawCommentNode{
				1: single(1, 0, "// a"),
				3: single(3, 0, "// b"),
			},
			want: map[int]vdtag.CommentNode{
				1: {Content: "// a", StartLine: 1, EndLine: 1},
				3: {Content: "// b", StartLine: 3, EndLine: 3},
			},
		},
		"indent change starts a new run": {
			input: map[int]vdtag.RawCommentNode{
				1: single(1, 0, "// a"),
				2: single(2, 0, "// b"),
				3: single(3, 4, "// c"),
				4: single(4, 4, "// d"),
			},
			want: map[int]vdtag.CommentNode{
				2: {Content: "// a\n// b", StartLine: 1, EndLine: 2},
				4: {Content: "// c\n// d", StartLine: 3, EndLine: 4},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := vdtag.SquishSingleLineComments(tc.input)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRawFileAstFileAst(t *testing.T) {
	t.Parallel()

	raw := vdtag.NewRawFileAst()
	raw.AddMultilineComment(vdtag.CommentNode{Content: "/* x */", StartLine: 2, EndLine: 2})
	raw.AddSingleLineComment(single(1, 0, "// a"))
	raw.AddSingleLineComment(single(2, 0, "// b"))
	raw.AddSingleLineComment(single(7, 0, "// c"))

	f := raw.FileAst()

	require.Len(t, f.Comments[2], 2)
	assert.Equal(t, "/* x */", f.Comments[2][0].Content)
	assert.Equal(t, "// a\n// b", f.Comments[2][1].Content)
	assert.Equal(t, []vdtag.CommentNode{{Content: "// c", StartLine: 7, EndLine: 7}}, f.Comments[7])
	assert.NotContains(t, f.Comments, 1)

	// The raw index is left untouched.
	assert.Len(t, raw.MultiLineComments[2], 1)
}
