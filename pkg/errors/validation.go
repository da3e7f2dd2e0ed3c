package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPackageNameLen matches the crates.io limit on name length.
const maxPackageNameLen = 64

// ValidatePackageName rejects names that are unsafe to use as a path
// component under the cache or index directories.
//
// It only checks for traversal and control characters. Registry-specific
// naming rules belong in [ValidateCratesPackageName].
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}
	if len(name) > maxPackageNameLen {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxPackageNameLen)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains control characters: %q", name)
		}
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPackage, "package name is a relative path: %q", name)
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

var cratesPackageNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCratesPackageName applies Cargo's crate naming rules on top of
// [ValidatePackageName]. Accepted names are ASCII, so index shard prefixes
// can be cut on byte offsets.
func ValidateCratesPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if !cratesPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid crates.io package name: %q", name)
	}
	return nil
}
