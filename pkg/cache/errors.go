package cache

import "errors"

// Sentinel errors for cache lookups.
var (
	// ErrArchiveNotFound is returned when a package's archive is not in the
	// registry cache. It is always wrapped in an ARCHIVE_NOT_FOUND *errors.Error
	// naming the expected path and the package.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrNotRegular is returned when the cache path exists but is not a file.
	ErrNotRegular = errors.New("not a regular file")
)
