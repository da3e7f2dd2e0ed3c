package registry

import (
	"path"

	"github.com/krig/cargo-vendor/pkg/errors"
)

// IndexDir is the name of the index directory under a registry root.
const IndexDir = "index"

// ShardPath returns the slash-separated path of name's index file relative to
// the index directory. Only valid crate names have one; they are ASCII, so
// the prefixes are cut on byte offsets.
func ShardPath(name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "empty crate name has no index path")
	}
	if err := errors.ValidateCratesPackageName(name); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "crate %q has no index path", name)
	}
	switch len(name) {
	case 1:
		return path.Join("1", name), nil
	case 2:
		return path.Join("2", name), nil
	case 3:
		return path.Join("3", name[:1], name), nil
	default:
		return path.Join(name[:2], name[2:4], name), nil
	}
}

// IndexPath returns the slash-separated path of name's index file relative to
// the registry root, e.g. "index/se/rd/serde".
func IndexPath(name string) (string, error) {
	shard, err := ShardPath(name)
	if err != nil {
		return "", err
	}
	return path.Join(IndexDir, shard), nil
}
