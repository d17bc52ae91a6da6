// Package pathcmp centralizes the platform path comparison policy.
//
// Windows and macOS file systems are case-insensitive by default, Linux and
// the other Unix systems are not. The pattern matcher, the rule aggregate and
// the scanner's sort step all consume the same Comparer so the policy is
// decided exactly once per process.
package pathcmp

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Comparer compares and orders paths and names under one case policy.
type Comparer struct {
	insensitive bool
}

var (
	// CaseSensitive compares byte-for-byte.
	CaseSensitive = Comparer{insensitive: false}
	// CaseInsensitive folds case before comparing.
	CaseInsensitive = Comparer{insensitive: true}

	// Default is the comparer for the running platform.
	Default = ForOS(runtime.GOOS)
)

// ForOS returns the comparer used on the given GOOS value.
func ForOS(goos string) Comparer {
	switch goos {
	case "windows", "darwin", "ios":
		return CaseInsensitive
	default:
		return CaseSensitive
	}
}

// CaseInsensitive reports whether the comparer folds case.
func (c Comparer) CaseInsensitive() bool { return c.insensitive }

// Key normalizes s for use as a map key under this comparer.
func (c Comparer) Key(s string) string {
	if c.insensitive {
		return strings.ToLower(s)
	}
	return s
}

// Equal reports whether a and b are the same name under this comparer.
func (c Comparer) Equal(a, b string) bool {
	if c.insensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Compare orders a and b. Case-insensitive comparers fall back to an ordinal
// comparison when the folded values tie, which keeps sorting deterministic.
func (c Comparer) Compare(a, b string) int {
	if c.insensitive {
		if r := strings.Compare(strings.ToLower(a), strings.ToLower(b)); r != 0 {
			return r
		}
	}
	return strings.Compare(a, b)
}

// Less is Compare(a, b) < 0, convenient for sort.Slice.
func (c Comparer) Less(a, b string) bool { return c.Compare(a, b) < 0 }

// Contains reports whether path is root itself or lies beneath it. Both
// arguments are cleaned first; no filesystem access is performed.
func (c Comparer) Contains(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if c.Equal(root, path) {
		return true
	}
	if len(path) <= len(root) {
		return false
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if len(path) < len(prefix) {
		return false
	}
	return c.Equal(path[:len(prefix)], prefix)
}

// Rel returns path relative to root in slash form, or ok=false when path is
// not inside root. The root itself yields "".
func (c Comparer) Rel(root, path string) (rel string, ok bool) {
	if !c.Contains(root, path) {
		return "", false
	}
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if len(path) == len(root) {
		return "", true
	}
	rest := path[len(root):]
	rest = strings.TrimPrefix(rest, string(filepath.Separator))
	return filepath.ToSlash(rest), true
}
