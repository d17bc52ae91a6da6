// Package rules combines the attribute filters, the smart-ignore name sets and
// nested ignore files into a single per-entry decision.
package rules

import (
	"path/filepath"
	"sort"

	"github.com/bethropolis/dir-scanner/internal/fsattr"
	"github.com/bethropolis/dir-scanner/internal/ignore"
	"github.com/bethropolis/dir-scanner/internal/pathcmp"
)

// ScopedMatcher is one discovered ignore file and the directory it governs
type ScopedMatcher struct {
	Root    string
	Matcher *ignore.Matcher
}

// Reason names the filter that excluded an entry
type Reason string

const (
	ReasonNone   Reason = ""
	ReasonHidden Reason = "hidden attribute"
	ReasonDot    Reason = "dot prefix"
	ReasonSmart  Reason = "smart ignore"
	ReasonVCS    Reason = "ignore file"
)

// Decision is the outcome for one entry. Traverse is only ever true for
// ignored directories that may still contain re-included content.
type Decision struct {
	Ignored  bool
	Traverse bool
	Reason   Reason
}

// IgnoreRules is immutable once built and safe for concurrent scans
type IgnoreRules struct {
	hiddenFolders bool
	hiddenFiles   bool
	dotFolders    bool
	dotFiles      bool

	smartIgnore  bool
	rawFolders   []string
	rawFiles     []string
	smartFolders map[string]struct{}
	smartFiles   map[string]struct{}
	smartRoots   []string

	useGitIgnore bool
	scopes       []ScopedMatcher

	cmp      pathcmp.Comparer
	isHidden func(path, name string) bool
}

// New builds the rules for one scan request
func New(opts ...Option) *IgnoreRules {
	r := &IgnoreRules{
		cmp:      pathcmp.Default,
		isHidden: fsattr.IsHidden,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.smartFolders = r.keySet(r.rawFolders)
	r.smartFiles = r.keySet(r.rawFiles)
	r.rawFolders, r.rawFiles = nil, nil
	for i, root := range r.smartRoots {
		r.smartRoots[i] = filepath.Clean(root)
	}
	for i := range r.scopes {
		r.scopes[i].Root = filepath.Clean(r.scopes[i].Root)
	}
	return r
}

func (r *IgnoreRules) keySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[r.cmp.Key(n)] = struct{}{}
	}
	return set
}

// Comparer returns the path comparer the rules were built with
func (r *IgnoreRules) Comparer() pathcmp.Comparer {
	return r.cmp
}

// ResolveVersionControlMatcher returns the matcher of the deepest scope
// containing path, or ignore.Empty.
func (r *IgnoreRules) ResolveVersionControlMatcher(path string) *ignore.Matcher {
	if !r.useGitIgnore {
		return ignore.Empty
	}
	best := ignore.Empty
	bestLen := -1
	for _, s := range r.scopes {
		if len(s.Root) > bestLen && r.cmp.Contains(s.Root, path) {
			best, bestLen = s.Matcher, len(s.Root)
		}
	}
	return best
}

// ShouldApplySmartIgnore reports whether path lies under a smart-ignore root
func (r *IgnoreRules) ShouldApplySmartIgnore(path string) bool {
	if !r.smartIgnore {
		return false
	}
	for _, root := range r.smartRoots {
		if r.cmp.Contains(root, path) {
			return true
		}
	}
	return false
}

// IsIgnored reports whether any filter excludes the entry
func (r *IgnoreRules) IsIgnored(path, name string, isDir bool) bool {
	return r.Decide(path, name, isDir).Ignored
}

// Decide evaluates every filter for one entry
func (r *IgnoreRules) Decide(path, name string, isDir bool) Decision {
	if name == "" {
		name = filepath.Base(path)
	}

	if reason := r.attributeReason(path, name, isDir); reason != ReasonNone {
		return Decision{Ignored: true, Reason: reason}
	}

	m := r.ResolveVersionControlMatcher(path)
	if !m.IsIgnored(path, isDir, name) {
		return Decision{}
	}
	return Decision{
		Ignored:  true,
		Traverse: isDir && m.ShouldTraverseIgnoredDirectory(path, name),
		Reason:   ReasonVCS,
	}
}

func (r *IgnoreRules) attributeReason(path, name string, isDir bool) Reason {
	hiddenOn, dotOn := r.hiddenFiles, r.dotFiles
	if isDir {
		hiddenOn, dotOn = r.hiddenFolders, r.dotFolders
	}

	switch {
	case hiddenOn && r.isHidden(path, name):
		return ReasonHidden
	case dotOn && fsattr.IsDotName(name):
		return ReasonDot
	case r.smartHit(path, name, isDir):
		return ReasonSmart
	}
	return ReasonNone
}

func (r *IgnoreRules) smartHit(path, name string, isDir bool) bool {
	set := r.smartFiles
	if isDir {
		set = r.smartFolders
	}
	if len(set) == 0 {
		return false
	}
	if _, ok := set[r.cmp.Key(name)]; !ok {
		return false
	}
	return r.ShouldApplySmartIgnore(path)
}

// Scopes returns the registered ignore-file scopes
func (r *IgnoreRules) Scopes() []ScopedMatcher {
	out := make([]ScopedMatcher, len(r.scopes))
	copy(out, r.scopes)
	return out
}

// SmartFolders returns the smart-ignore folder names in sorted order
func (r *IgnoreRules) SmartFolders() []string { return sortedKeys(r.smartFolders) }

// SmartFiles returns the smart-ignore file names in sorted order
func (r *IgnoreRules) SmartFiles() []string { return sortedKeys(r.smartFiles) }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
