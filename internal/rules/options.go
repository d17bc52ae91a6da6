package rules

import (
	"github.com/bethropolis/dir-scanner/internal/ignore"
	"github.com/bethropolis/dir-scanner/internal/pathcmp"
)

// Option configures IgnoreRules
type Option func(*IgnoreRules)

// WithHiddenFolders excludes directories carrying the platform hidden attribute
func WithHiddenFolders(enabled bool) Option {
	return func(r *IgnoreRules) { r.hiddenFolders = enabled }
}

// WithHiddenFiles excludes files carrying the platform hidden attribute
func WithHiddenFiles(enabled bool) Option {
	return func(r *IgnoreRules) { r.hiddenFiles = enabled }
}

// WithDotFolders excludes directories whose name starts with '.'
func WithDotFolders(enabled bool) Option {
	return func(r *IgnoreRules) { r.dotFolders = enabled }
}

// WithDotFiles excludes files whose name starts with '.'
func WithDotFiles(enabled bool) Option {
	return func(r *IgnoreRules) { r.dotFiles = enabled }
}

// WithSmartIgnore enables the ecosystem name sets. The sets only apply under
// the given roots.
func WithSmartIgnore(folders, files, roots []string) Option {
	return func(r *IgnoreRules) {
		r.smartIgnore = true
		r.rawFolders = append(r.rawFolders, folders...)
		r.rawFiles = append(r.rawFiles, files...)
		r.smartRoots = append(r.smartRoots, roots...)
	}
}

// WithGitIgnore toggles version-control ignore files
func WithGitIgnore(enabled bool) Option {
	return func(r *IgnoreRules) { r.useGitIgnore = enabled }
}

// WithMatchers registers one scope per matcher, rooted at the matcher's root
func WithMatchers(matchers ...*ignore.Matcher) Option {
	return func(r *IgnoreRules) {
		for _, m := range matchers {
			if m == nil {
				continue
			}
			r.scopes = append(r.scopes, ScopedMatcher{Root: m.Root(), Matcher: m})
		}
	}
}

// WithComparer overrides the platform path comparer
func WithComparer(cmp pathcmp.Comparer) Option {
	return func(r *IgnoreRules) { r.cmp = cmp }
}

// WithHiddenProbe replaces the hidden-attribute query
func WithHiddenProbe(probe func(path, name string) bool) Option {
	return func(r *IgnoreRules) {
		if probe != nil {
			r.isHidden = probe
		}
	}
}
