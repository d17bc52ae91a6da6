// Package smartignore infers build and dependency folders to hide from the
// ecosystem marker files found at a project root.
package smartignore

import (
	"path/filepath"
	"sort"

	"github.com/bethropolis/dir-scanner/internal/logger"
)

// Detection is the union of every rule over every evaluated root
type Detection struct {
	Folders    []string
	Files      []string
	Roots      []string
	Ecosystems []string
}

// Detector runs an ordered set of rules
type Detector struct {
	rules  []Rule
	logger logger.Interface
}

// Option configures a Detector
type Option func(*Detector)

// WithRules replaces the built-in rules
func WithRules(rules ...Rule) Option {
	return func(d *Detector) { d.rules = rules }
}

// WithLogger sets the logger used to report detected ecosystems
func WithLogger(l logger.Interface) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDetector creates a detector with the built-in rules
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		rules:  DefaultRules(),
		logger: logger.Nop{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect evaluates every rule against every root. Every evaluated root is
// recorded as a scope root, whether or not anything was found there.
func (d *Detector) Detect(roots []string) Detection {
	folders := map[string]struct{}{}
	files := map[string]struct{}{}
	ecosystems := map[string]struct{}{}
	var det Detection

	seen := map[string]bool{}
	for _, root := range roots {
		root = filepath.Clean(root)
		if seen[root] {
			continue
		}
		seen[root] = true
		det.Roots = append(det.Roots, root)

		for _, rule := range d.rules {
			res := rule.Evaluate(root)
			if res.Empty() {
				continue
			}
			d.logger.Info("Detected %s project in %s", rule.Name(), root)
			ecosystems[rule.Name()] = struct{}{}
			for _, f := range res.Folders {
				folders[f] = struct{}{}
			}
			for _, f := range res.Files {
				files[f] = struct{}{}
			}
		}
	}

	det.Folders = sortedSet(folders)
	det.Files = sortedSet(files)
	det.Ecosystems = sortedSet(ecosystems)
	return det
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
