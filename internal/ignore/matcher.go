package ignore

import (
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"

	"github.com/bethropolis/dir-scanner/internal/pathcmp"
)

// Build compiles the lines of one ignore file found in scopeRoot.
//
// Blank lines and '#' comments are skipped, unescaped trailing whitespace is
// trimmed and a leading backslash escapes a literal '#' or '!'. Lines that
// cannot be compiled are dropped; they never cause an error.
func Build(scopeRoot string, lines []string, opts ...Option) *Matcher {
	m := &Matcher{
		root: filepath.Clean(scopeRoot),
		cmp:  pathcmp.Default,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, line := range lines {
		p, ok := m.compile(line)
		if !ok {
			continue
		}
		if p.match == nil {
			m.dropped++
			continue
		}
		if p.negated {
			m.hasNegation = true
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// compile parses a single line. ok is false for blank and comment lines; a
// pattern with a nil match could not be compiled.
func (m *Matcher) compile(line string) (pattern, bool) {
	line = trimTrailingSpace(strings.TrimRight(line, "\r\n"))
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return pattern{}, false
	}

	p := pattern{source: line}
	body := strings.TrimPrefix(line, "!")
	if strings.HasSuffix(body, "/") {
		p.dirOnly = true
		body = strings.TrimRight(body, "/")
	}
	anchored := strings.HasPrefix(body, "/")
	body = strings.TrimLeft(body, "/")
	if body == "" {
		return pattern{}, false
	}
	p.topLevel = anchored && !strings.Contains(body, "/") && !strings.Contains(body, "**")

	fold := func(s string) string { return s }
	if m.cmp.CaseInsensitive() {
		fold = strings.ToLower
	}

	match, ok := parse(fold(line))
	if !ok {
		return p, true
	}
	p.match = match
	p.negated = match.Include()

	if parent, recursive, ok := contentParent(body); ok {
		if pm, ok := parse("/" + fold(parent)); ok {
			p.parent = pm
			p.recursive = recursive
		}
	}
	return p, true
}

// parse compiles exactly one gitignore line. Lines the parser reports an
// error for are rejected.
func parse(line string) (gitignore.Pattern, bool) {
	failed := false
	patterns := gitignore.NewParser(strings.NewReader(line), func(gitignore.Error) bool {
		failed = true
		return true
	}).Parse()
	if failed || len(patterns) != 1 {
		return nil, false
	}
	return patterns[0], true
}

// trimTrailingSpace drops trailing spaces and tabs unless the last one is
// escaped with a backslash.
func trimTrailingSpace(line string) string {
	for len(line) > 0 {
		last := line[len(line)-1]
		if last != ' ' && last != '\t' {
			break
		}
		slashes := 0
		for i := len(line) - 2; i >= 0 && line[i] == '\\'; i-- {
			slashes++
		}
		if slashes%2 == 1 {
			break
		}
		line = line[:len(line)-1]
	}
	return line
}

// contentParent returns the directory part of a pattern that only targets
// that directory's contents, such as "bin/*" or "out/**".
func contentParent(body string) (parent string, recursive bool, ok bool) {
	for _, suffix := range []string{"/**", "/*"} {
		if strings.HasSuffix(body, suffix) {
			parent = strings.TrimSuffix(body, suffix)
			if parent == "" || parent == "**" {
				return "", false, false
			}
			return parent, suffix == "/**", true
		}
	}
	return "", false, false
}
