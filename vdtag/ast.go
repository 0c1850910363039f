package vdtag

import (
	"maps"
	"slices"
)

// CommentNode is a contiguous comment span and its verbatim text.
type CommentNode struct {
	Content   string
	StartLine int
	EndLine   int
}

// RawCommentNode is a single-line [CommentNode] that also records the column
// of its opener. Vertically adjacent nodes with equal IndentIndex are merged
// by [SquishSingleLineComments].
type RawCommentNode struct {
	CommentNode

	IndentIndex int
}

// RawFileAst indexes the comments of one file by their ending line, keeping
// single-line and multi-line comments apart.
//
// Create instances with [NewRawFileAst].
type RawFileAst struct {
	// At most one per line; a later write for the same line wins.
	SingleLineComments map[int]RawCommentNode
	MultiLineComments  map[int][]CommentNode
}

// FileAst holds every comment of one file keyed by ending line. It is
// produced from a [RawFileAst] by [RawFileAst.FileAst].
type FileAst struct {
	Comments map[int][]CommentNode
}

// NewRawFileAst returns an empty [RawFileAst].
func NewRawFileAst() *RawFileAst {
	return &RawFileAst{
		SingleLineComments: make(map[int]RawCommentNode),
		MultiLineComments:  make(map[int][]CommentNode),
	}
}

// NewRawFileAstFromComments builds a [RawFileAst] from tokenizer output.
func NewRawFileAstFromComments(comments []Comment) *RawFileAst {
	raw := NewRawFileAst()

	for _, c := range comments {
		node := CommentNode{
			Content:   c.Content,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		}

		if c.SingleLine {
			raw.AddSingleLineComment(RawCommentNode{CommentNode: node, IndentIndex: c.IndentIndex})

			continue
		}

		raw.AddMultilineComment(node)
	}

	return raw
}

// AddSingleLineComment stores node under its ending line, replacing any
// single-line comment already stored there.
func (r *RawFileAst) AddSingleLineComment(node RawCommentNode) {
	r.SingleLineComments[node.EndLine] = node
}

// AddMultilineComment appends node to the comments ending on its line.
func (r *RawFileAst) AddMultilineComment(node CommentNode) {
	r.MultiLineComments[node.EndLine] = append(r.MultiLineComments[node.EndLine], node)
}

// FileAst merges the multi-line comments with the squished single-line
// comments. A line ends up with more than one comment only when several
// comments genuinely end there; [FileAst.Reduce] rejects those lines.
func (r *RawFileAst) FileAst() *FileAst {
	f := &FileAst{Comments: make(map[int][]CommentNode, len(r.MultiLineComments))}

	for endLine, nodes := range r.MultiLineComments {
		f.Comments[endLine] = slices.Clone(nodes)
	}

	for endLine, node := range SquishSingleLineComments(r.SingleLineComments) {
		f.Comments[endLine] = append(f.Comments[endLine], node)
	}

	return f
}

// SquishSingleLineComments merges vertically adjacent single-line comments
// that share an indent index into one [CommentNode] keyed by the last line
// of the run. Contents are joined with "\n".
//
// Adjacency is checked against the input, while the merged text is taken from
// the result, so a run of any length collapses into a single node.
func SquishSingleLineComments(comments map[int]RawCommentNode) map[int]CommentNode {
	result := make(map[int]CommentNode, len(comments))

	for _, endLine := range sortedLines(comments) {
		current := comments[endLine]

		above, ok := comments[endLine-1]
		if !ok || above.IndentIndex != current.IndentIndex {
			result[endLine] = current.CommentNode

			continue
		}

		merged := result[endLine-1]
		delete(result, endLine-1)

		result[endLine] = CommentNode{
			Content:   merged.Content + "\n" + current.Content,
			StartLine: merged.StartLine,
			EndLine:   endLine,
		}
	}

	return result
}

// sortedLines returns the keys of m in ascending numeric order.
func sortedLines[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}
