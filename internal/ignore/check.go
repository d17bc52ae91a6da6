package ignore

import "strings"

// IsIgnored reports whether the entry at path is excluded by this scope.
//
// The result is the polarity of the last pattern matching the entry. Entries
// below a directory that is itself excluded are excluded too. A directory
// whose contents are all targeted by a "dir/*" style pattern is reported as
// ignored unless the scope has negation rules. Patterns are matched against
// the path relative to the scope, so name only documents the caller's entry.
func (m *Matcher) IsIgnored(fullPath string, isDir bool, name string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	rel, ok := m.cmp.Rel(m.root, fullPath)
	if !ok || rel == "" {
		return false
	}
	if m.cmp.CaseInsensitive() {
		rel = strings.ToLower(rel)
	}

	// an excluded parent directory cannot be re-included from below
	segs := strings.Split(rel, "/")
	for i := 1; i < len(segs); i++ {
		anc := strings.Join(segs[:i], "/")
		if m.excluded(anc, true) || m.contentsExcluded(anc) {
			return true
		}
	}

	if m.excluded(rel, isDir) {
		return true
	}
	return isDir && m.contentsExcluded(rel)
}

// ShouldTraverseIgnoredDirectory reports whether an ignored directory still
// has to be walked. Only negation rules can exempt content below it. Since an
// excluded directory cannot be re-included by a negation in the same scope,
// the walk exists to discover ignore files in nested scopes below it.
func (m *Matcher) ShouldTraverseIgnoredDirectory(fullPath, name string) bool {
	return m.HasNegationRules()
}

// excluded evaluates the patterns against a single relative path, last
// match wins.
func (m *Matcher) excluded(rel string, isDir bool) bool {
	for i := len(m.patterns) - 1; i >= 0; i-- {
		if m.patterns[i].matches(rel, isDir) {
			return m.patterns[i].match.Ignore()
		}
	}
	return false
}

// contentsExcluded is the content-based directory inference. It is disabled
// whenever a negation rule exists, since that rule could exempt some content.
// Directory-only patterns ("build/*/") leave the files of the directory
// visible, so they never hide the directory itself.
func (m *Matcher) contentsExcluded(rel string) bool {
	if m.hasNegation {
		return false
	}
	for i := range m.patterns {
		p := &m.patterns[i]
		if p.parent == nil || p.dirOnly {
			continue
		}
		if p.parent.Match(rel, true) {
			return true
		}
	}
	return false
}

func (p *pattern) matches(rel string, isDir bool) bool {
	if p.topLevel && strings.Contains(rel, "/") {
		return false
	}
	if !p.match.Match(rel, isDir) {
		return false
	}
	if !p.recursive {
		return true
	}
	// "dir/**" only matches entries strictly inside a directory matching dir
	for i := strings.LastIndex(rel, "/"); i > 0; i = strings.LastIndex(rel[:i], "/") {
		if p.parent.Match(rel[:i], true) {
			return true
		}
	}
	return false
}
