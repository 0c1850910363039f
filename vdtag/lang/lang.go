// Package lang tokenizes source files into comment spans with tree-sitter.
//
// Each [Language] knows its file extensions, its grammar and which comment
// openers denote single-line comments. A [Registry] maps file extensions to
// languages; [DefaultRegistry] holds every built-in language.
package lang

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	"go.jacobcolvin.com/vivadoc/vdtag"
)

var (
	// ErrUnsupportedLanguage is returned when no language handles a file.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrParse is returned when tree-sitter cannot parse a file.
	ErrParse = errors.New("parse source")
)

var (
	slashPrefixes = []string{"//"}
	hashPrefixes  = []string{"#"}

	commentNodeTypes = []string{"comment", "line_comment", "block_comment"}
)

// Language describes how to find comments in one programming language.
//
// A Language implements [vdtag.Tokenizer] and is safe for concurrent use;
// every call to [Language.Comments] uses its own parser.
type Language struct {
	grammar      func() *sitter.Language
	Name         string
	Extensions   []string
	LinePrefixes []string
}

// JavaScript returns the JavaScript language.
func JavaScript() *Language {
	return &Language{
		Name:         "javascript",
		Extensions:   []string{".js", ".jsx", ".mjs", ".cjs"},
		LinePrefixes: slashPrefixes,
		grammar:      javascript.GetLanguage,
	}
}

// TypeScript returns the TypeScript language.
func TypeScript() *Language {
	return &Language{
		Name:         "typescript",
		Extensions:   []string{".ts", ".mts", ".cts"},
		LinePrefixes: slashPrefixes,
		grammar:      typescript.GetLanguage,
	}
}

// TSX returns the TypeScript JSX language.
func TSX() *Language {
	return &Language{
		Name:         "tsx",
		Extensions:   []string{".tsx"},
		LinePrefixes: slashPrefixes,
		grammar:      tsx.GetLanguage,
	}
}

// Go returns the Go language.
func Go() *Language {
	return &Language{
		Name:         "go",
		Extensions:   []string{".go"},
		LinePrefixes: slashPrefixes,
		grammar:      golang.GetLanguage,
	}
}

// Python returns the Python language.
func Python() *Language {
	return &Language{
		Name:         "python",
		Extensions:   []string{".py"},
		LinePrefixes: hashPrefixes,
		grammar:      python.GetLanguage,
	}
}

// Rust returns the Rust language.
func Rust() *Language {
	return &Language{
		Name:         "rust",
		Extensions:   []string{".rs"},
		LinePrefixes: slashPrefixes,
		grammar:      rust.GetLanguage,
	}
}

// Java returns the Java language.
func Java() *Language {
	return &Language{
		Name:         "java",
		Extensions:   []string{".java"},
		LinePrefixes: slashPrefixes,
		grammar:      java.GetLanguage,
	}
}

// C returns the C language.
func C() *Language {
	return &Language{
		Name:         "c",
		Extensions:   []string{".c", ".h"},
		LinePrefixes: slashPrefixes,
		grammar:      c.GetLanguage,
	}
}

// CPP returns the C++ language.
func CPP() *Language {
	return &Language{
		Name:         "cpp",
		Extensions:   []string{".cc", ".cpp", ".cxx", ".hh", ".hpp"},
		LinePrefixes: slashPrefixes,
		grammar:      cpp.GetLanguage,
	}
}

// Bash returns the Bash language.
func Bash() *Language {
	return &Language{
		Name:         "bash",
		Extensions:   []string{".sh", ".bash"},
		LinePrefixes: hashPrefixes,
		grammar:      bash.GetLanguage,
	}
}

// YAML returns the YAML language.
func YAML() *Language {
	return &Language{
		Name:         "yaml",
		Extensions:   []string{".yaml", ".yml"},
		LinePrefixes: hashPrefixes,
		grammar:      yaml.GetLanguage,
	}
}

// Comments implements [vdtag.Tokenizer]. Line numbers are 1-based and
// IndentIndex is the 0-based column of the comment opener.
func (l *Language) Comments(ctx context.Context, content []byte) ([]vdtag.Comment, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(l.grammar())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, l.Name, err)
	}
	defer tree.Close()

	var comments []vdtag.Comment

	stack := []*sitter.Node{tree.RootNode()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if slices.Contains(commentNodeTypes, node.Type()) {
			comments = append(comments, l.comment(node, content))

			continue
		}

		// Push in reverse so children are visited in source order.
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}

	return comments, nil
}

// comment converts a tree-sitter comment node. Some grammars include the
// terminating newline in line comments, so the end line is derived from the
// trimmed text rather than the node's end point.
func (l *Language) comment(node *sitter.Node, content []byte) vdtag.Comment {
	text := strings.TrimRight(node.Content(content), "\r\n")
	start := node.StartPoint()
	startLine := int(start.Row) + 1

	return vdtag.Comment{
		Content:     text,
		StartLine:   startLine,
		EndLine:     startLine + strings.Count(text, "\n"),
		IndentIndex: int(start.Column),
		SingleLine:  l.isLineComment(text),
	}
}

func (l *Language) isLineComment(text string) bool {
	for _, prefix := range l.LinePrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}

	return false
}

// Registry maps lower-case file extensions (with the leading dot) to
// languages.
type Registry map[string]*Language

// DefaultRegistry returns a [Registry] holding every built-in language.
func DefaultRegistry() Registry {
	r := make(Registry)
	r.Add(
		JavaScript(), TypeScript(), TSX(), Go(), Python(), Rust(),
		Java(), C(), CPP(), Bash(), YAML(),
	)

	return r
}

// Add registers langs under each of their extensions, replacing earlier
// registrations for the same extension.
func (r Registry) Add(langs ...*Language) {
	for _, l := range langs {
		for _, ext := range l.Extensions {
			r[strings.ToLower(ext)] = l
		}
	}
}

// ForPath returns the language registered for the extension of path.
func (r Registry) ForPath(path string) (*Language, error) {
	ext := strings.ToLower(filepath.Ext(path))

	l, ok := r[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, path)
	}

	return l, nil
}

// Names returns the sorted, de-duplicated names of the registered languages.
func (r Registry) Names() []string {
	var names []string

	for _, l := range r {
		if !slices.Contains(names, l.Name) {
			names = append(names, l.Name)
		}
	}

	slices.Sort(names)

	return names
}
