// Package stringtest provides helpers for building source fixtures in tests.
package stringtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// JoinLF joins lines with "\n". Use it to spell out a source file one line
// per argument, so line numbers in assertions are easy to read:
//
//	src := stringtest.JoinLF(
//		"// @VD alice start", // line 1
//		"x := 1",             // line 2
//		"// @VD end",         // line 3
//	)
func JoinLF(lines ...string) string {
	return strings.Join(lines, "\n")
}

// Input removes one leading and one trailing newline from s, then strips
// the indentation common to all non-blank lines. Whitespace-only lines
// become empty.
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")
	prefix := ""
	first := true

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false

			continue
		}

		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}

// WriteFiles writes files (slash-separated relative path to content) under
// a fresh temporary directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))

		err := os.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}

		err = os.WriteFile(path, []byte(content), 0o644)
		if err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	return dir
}
