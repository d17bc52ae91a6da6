// Package ignore compiles and evaluates version-control ignore files
package ignore

import (
	gitignore "github.com/denormal/go-gitignore"

	"github.com/bethropolis/dir-scanner/internal/pathcmp"
)

// Matcher evaluates the ignore patterns of a single directory scope.
// A Matcher is immutable once built and safe for concurrent use.
type Matcher struct {
	// Directory the ignore file was found in; patterns are relative to it
	root string

	// Compiled patterns in declaration order
	patterns []pattern

	hasNegation bool
	dropped     int
	cmp         pathcmp.Comparer
}

// pattern is one compiled ignore-file line
type pattern struct {
	source  string
	negated bool
	dirOnly bool

	// Anchored patterns without a separator ("/build") only match entries
	// directly inside the scope root.
	topLevel bool

	match gitignore.Pattern

	// For patterns that only target a directory's contents ("dir/*",
	// "dir/**"), parent matches the directory itself, anchored to the scope.
	parent gitignore.Pattern

	// recursive is set for "dir/**", which must not match dir itself
	recursive bool
}

// Empty never ignores anything. It is returned whenever no scope applies.
var Empty = &Matcher{cmp: pathcmp.Default}
