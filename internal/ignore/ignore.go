// Package ignore provides gitignore-style pattern matching for one directory scope
//
// A Matcher is built from the lines of a single ignore file and answers,
// for any path under the directory that file was found in, whether the path
// is excluded. Choosing between nested ignore files is left to the rules
// package.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadLines splits r into lines without interpreting them
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Load reads the ignore file at path and builds a Matcher scoped to the
// directory containing it.
func Load(path string, opts ...Option) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to open %q: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to read %q: %w", path, err)
	}
	return Build(filepath.Dir(path), lines, opts...), nil
}

// Root returns the scope directory
func (m *Matcher) Root() string {
	if m == nil {
		return ""
	}
	return m.root
}

// Len returns the number of compiled patterns
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Dropped returns how many lines could not be compiled
func (m *Matcher) Dropped() int {
	if m == nil {
		return 0
	}
	return m.dropped
}

// HasNegationRules reports whether any pattern starts with '!'
func (m *Matcher) HasNegationRules() bool {
	return m != nil && m.hasNegation
}

// Patterns returns the source lines of the compiled patterns in order
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		out[i] = p.source
	}
	return out
}
