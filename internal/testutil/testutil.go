// Package testutil provides shared file fixtures for command and
// end-to-end tests.
//
// Typical usage:
//
//	func TestLearn(t *testing.T) {
//	    dir := t.TempDir()
//	    in := testutil.WriteLines(t, dir, "in.txt", "ab ab ab ac")
//	    ...
//	    got := testutil.ReadLines(t, out)
//	}
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteLines writes lines, each terminated by a newline, to dir/name and
// returns the path.
func WriteLines(tb testing.TB, dir, name string, lines ...string) string {
	tb.Helper()

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return WriteFile(tb, dir, name, b.String())
}

// WriteFile writes content verbatim to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// ReadLines reads path and splits it into newline-terminated lines. It fails
// the test if the last line is not terminated.
func ReadLines(tb testing.TB, path string) []string {
	tb.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	if !strings.HasSuffix(s, "\n") {
		tb.Fatalf("%s: last line is not newline-terminated: %q", path, s)
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// RequireMissing fails the test if path exists.
func RequireMissing(tb testing.TB, path string) {
	tb.Helper()

	if _, err := os.Stat(path); err == nil {
		tb.Fatalf("%s exists; want it absent", path)
	}
}
