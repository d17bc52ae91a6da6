//go:build !windows

package fsattr

// IsHidden reports whether the entry carries the platform "hidden" attribute.
// Unix has no such attribute; dot-prefixed names are what the platform treats
// as hidden.
func IsHidden(path, name string) bool {
	return IsDotName(name)
}
