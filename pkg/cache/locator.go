package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/krig/cargo-vendor/pkg/deps"
	vendorerrors "github.com/krig/cargo-vendor/pkg/errors"
)

// cratesIODirs are the cache directory names Cargo has used for crates.io,
// newest first.
var cratesIODirs = []string{
	"index.crates.io-1949cf8c6b5b557f",
	"index.crates.io-6f17d22bba15001f",
	"github.com-1ecc6299db9ec823",
}

// Archive is a located crate archive.
type Archive struct {
	Package *deps.Package
	Path    string
}

// Open opens the archive for reading.
func (a *Archive) Open() (io.ReadCloser, error) {
	return os.Open(a.Path)
}

// Locator finds cached crate archives under a registry cache root.
type Locator struct {
	root string
}

// NewLocator creates a locator for the given cache root, usually
// $CARGO_HOME/registry/cache.
func NewLocator(root string) *Locator {
	return &Locator{root: root}
}

// Root returns the cache root.
func (l *Locator) Root() string {
	return l.root
}

// Locate finds the cached archive of pkg.
//
// A miss returns an ARCHIVE_NOT_FOUND error wrapping [ErrArchiveNotFound];
// any other failure is IO_FAILURE.
func (l *Locator) Locate(pkg *deps.Package) (*Archive, error) {
	if pkg.Archive != "" {
		if err := checkFile(pkg.Archive); err != nil {
			return nil, notFound(pkg, pkg.Archive, err)
		}
		return &Archive{Package: pkg, Path: pkg.Archive}, nil
	}

	candidates, err := l.candidates(pkg.Source)
	if err != nil {
		return nil, vendorerrors.Wrap(vendorerrors.ErrCodeInvalidInput, err, "resolve cache directory for %s", pkg.ID())
	}

	file := pkg.FileName()
	for _, dir := range candidates {
		path := filepath.Join(dir, file)
		err := checkFile(path)
		if err == nil {
			return &Archive{Package: pkg, Path: path}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "stat cached archive %s", path)
		}
	}

	expected := filepath.Join(l.root, "*", file)
	if len(candidates) > 0 {
		expected = filepath.Join(candidates[0], file)
	}
	return nil, notFound(pkg, expected, fs.ErrNotExist)
}

// candidates returns the cache directories that may hold archives of src,
// most specific first.
func (l *Locator) candidates(src deps.SourceID) ([]string, error) {
	host, err := src.Host()
	if err != nil {
		return nil, err
	}

	var dirs []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			dirs = append(dirs, filepath.Join(l.root, name))
		}
	}

	if src.ShortHash != "" {
		add(host + "-" + src.ShortHash)
	}
	if src.IsCratesIO() {
		for _, name := range cratesIODirs {
			add(name)
		}
	}

	// Unknown hash: any directory for the same host.
	matches, err := filepath.Glob(filepath.Join(l.root, host+"-*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	for _, m := range matches {
		add(filepath.Base(m))
	}
	return dirs, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return nil
}

func notFound(pkg *deps.Package, path string, cause error) error {
	return vendorerrors.Wrap(vendorerrors.ErrCodeArchiveNotFound,
		fmt.Errorf("%w: %w", ErrArchiveNotFound, cause),
		"cached crate file `%s` doesn't exist for `%s`", path, pkg.ID())
}
