//go:build windows

package fsattr

import "syscall"

// IsHidden reports whether the entry at path has FILE_ATTRIBUTE_HIDDEN set.
func IsHidden(path, name string) bool {
	p, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(p)
	if err != nil {
		return false
	}
	const fileAttributeHidden = 0x2
	return attrs&fileAttributeHidden != 0
}
