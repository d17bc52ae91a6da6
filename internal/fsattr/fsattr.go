// Package fsattr answers platform attribute queries about filesystem entries.
package fsattr

import "strings"

// IsDotName reports whether name starts with a dot. The special entries "."
// and ".." are not dot names.
func IsDotName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
