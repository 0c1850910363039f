package vdtag

import "strings"

// Tags pairs every start annotation with the first end annotation ending at
// or after it and returns the resulting tags in ascending start order.
//
// There is no nesting: a second start annotation that reaches an end
// annotation already claimed by another start fails with
// [NameEndAnnotationUsedMultipleTimes], and a start annotation with no end
// annotation after it fails with [NameNoEndAnnotation].
//
// Consumption state is local to the call, so r can be paired any number of
// times with the same result.
func (r *ReducedFileAst) Tags(content, filePath string) ([]Tag, error) {
	lines := sortedLines(r.Comments)
	seen := make(map[int]bool)
	source := splitLines(content)
	tags := []Tag{}

	for _, line := range lines {
		start, ok := r.Comments[line].Data.(StartAnnotation)
		if !ok {
			continue
		}

		startNode := r.Comments[line]

		tag, err := r.closeTag(startNode, start, lines, seen, source, filePath)
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// closeTag scans lines (ascending) from startNode's ending line for the
// first end annotation and marks it seen.
func (r *ReducedFileAst) closeTag(
	startNode ReducedCommentNode,
	start StartAnnotation,
	lines []int,
	seen map[int]bool,
	source []string,
	filePath string,
) (Tag, error) {
	for _, line := range lines {
		if line < startNode.EndLine {
			continue
		}

		candidate := r.Comments[line]

		switch candidate.Data.(type) {
		case StartAnnotation:
			continue

		case EndAnnotation:
			if seen[line] {
				return Tag{}, NewParseError(NameEndAnnotationUsedMultipleTimes, filePath, candidate.StartLine,
					"You cannot have the same end annotation used by multiple start annotations.")
			}

			seen[line] = true

			return Tag{
				StartLine:         startNode.StartLine,
				EndLine:           candidate.EndLine,
				OwnerGroups:       start.OwnerGroups,
				TagAnnotationLine: start.TagAnnotationLine,
				Content:           ContentByLineNumbers(source, startNode.StartLine, candidate.EndLine),
			}, nil
		}
	}

	return Tag{}, NewParseError(NameNoEndAnnotation, filePath, startNode.StartLine,
		"Every start annotation needs an end annotation.")
}

// ContentByLineNumbers returns the 1-based lines [startLine, endLine] of
// source, clamped to the available lines.
func ContentByLineNumbers(source []string, startLine, endLine int) []string {
	from := max(startLine-1, 0)
	to := min(endLine, len(source))

	if from >= to {
		return []string{}
	}

	out := make([]string, to-from)
	copy(out, source[from:to])

	return out
}

// splitLines splits content on "\n", dropping a trailing "\r" from each line.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}
