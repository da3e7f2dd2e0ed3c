package rust

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/krig/cargo-vendor/pkg/errors"
)

// noChecksum is the placeholder v1 lockfiles use for packages without one.
const noChecksum = "<none>"

// Lockfile is a parsed Cargo.lock.
type Lockfile struct {
	Version  int               `toml:"version"`
	Packages []LockedPackage   `toml:"package"`
	Metadata map[string]string `toml:"metadata"`
}

// LockedPackage is one [[package]] entry.
type LockedPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum"`
	Dependencies []string `toml:"dependencies"`
}

// ID returns "name version".
func (p LockedPackage) ID() string {
	return p.Name + " " + p.Version
}

// ParseLockfile decodes Cargo.lock contents.
func ParseLockfile(data []byte) (*Lockfile, error) {
	var lf Lockfile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode Cargo.lock")
	}
	for i, p := range lf.Packages {
		if p.Name == "" || p.Version == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "Cargo.lock package #%d has no name or version", i+1)
		}
		if err := errors.ValidateCratesPackageName(p.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "Cargo.lock package #%d", i+1)
		}
	}
	return &lf, nil
}

// LoadLockfile reads and decodes a Cargo.lock file.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	lf, err := ParseLockfile(data)
	if err != nil {
		return nil, errors.Annotate(err, "file", path)
	}
	return lf, nil
}

// Checksum returns the recorded checksum of p, looking in the v1 [metadata]
// table when the package entry has none. Empty means unknown.
func (lf *Lockfile) Checksum(p LockedPackage) string {
	if p.Checksum != "" {
		return p.Checksum
	}
	sum := lf.Metadata[fmt.Sprintf("checksum %s %s (%s)", p.Name, p.Version, p.Source)]
	if sum == noChecksum {
		return ""
	}
	return sum
}
