package vdtag

import "fmt"

// ReducedFileAst holds only the comments that carry an annotation, one per
// ending line.
type ReducedFileAst struct {
	Comments map[int]ReducedCommentNode
}

// ReducedCommentNode is an annotation comment. Data is a [StartAnnotation]
// or an [EndAnnotation].
type ReducedCommentNode struct {
	Data      AnnotationData
	StartLine int
	EndLine   int
}

// AnnotationData is one of [StartAnnotation] or [EndAnnotation].
type AnnotationData interface {
	isAnnotationData()
}

// StartAnnotation opens a tagged span.
type StartAnnotation struct {
	OwnerGroups []Group
	// TagAnnotationLine is the line holding the annotation itself, which
	// may be any line of a multi-line comment.
	TagAnnotationLine int
}

// EndAnnotation closes a tagged span.
type EndAnnotation struct{}

func (StartAnnotation) isAnnotationData() {}
func (EndAnnotation) isAnnotationData()   {}

// Reduce classifies every comment with m and keeps the annotations.
//
// A line holding more than one comment fails with
// [NameMultipleCommentsOnSingleLine]. Errors returned by m are passed
// through unchanged. Lines are visited in ascending order so the first error
// reported for a file is stable.
func (f *FileAst) Reduce(m Matcher, filePath string) (*ReducedFileAst, error) {
	reduced := &ReducedFileAst{Comments: make(map[int]ReducedCommentNode)}

	for _, line := range sortedLines(f.Comments) {
		nodes := f.Comments[line]

		switch {
		case len(nodes) == 0:
			continue
		case len(nodes) > 1:
			return nil, NewParseError(NameMultipleCommentsOnSingleLine, filePath, line,
				"Viva Doc does not support having multiple comments on the same line.")
		}

		node := nodes[0]

		match, err := m.Match(node.Content, filePath, node.StartLine)
		if err != nil {
			return nil, err
		}

		switch mt := match.(type) {
		case NoTag:
			continue

		case EndTag:
			reduced.Comments[node.EndLine] = ReducedCommentNode{
				StartLine: node.StartLine,
				EndLine:   node.EndLine,
				Data:      EndAnnotation{},
			}

		case StartTag:
			reduced.Comments[node.EndLine] = ReducedCommentNode{
				StartLine: node.StartLine,
				EndLine:   node.EndLine,
				Data: StartAnnotation{
					OwnerGroups:       mt.OwnerGroups,
					TagAnnotationLine: node.StartLine + mt.LineOffset,
				},
			}

		default:
			return nil, fmt.Errorf("%w: unknown match %T on line %d", ErrParseTag, match, line)
		}
	}

	return reduced, nil
}
