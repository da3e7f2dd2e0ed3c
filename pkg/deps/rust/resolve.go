package rust

import (
	"github.com/krig/cargo-vendor/pkg/cache"
	"github.com/krig/cargo-vendor/pkg/deps"
	"github.com/krig/cargo-vendor/pkg/errors"
)

// Skipped is a lockfile package that cannot be vendored into a registry.
type Skipped struct {
	Package LockedPackage
	Reason  string
}

// FromLockfile turns the registry packages of lf into package descriptors,
// in lockfile order. Dependencies and features are read from each crate's
// cached archive through loc. Path, git and workspace packages are returned
// as skipped.
func FromLockfile(lf *Lockfile, loc *cache.Locator) ([]deps.Package, []Skipped, error) {
	var pkgs []deps.Package
	var skipped []Skipped

	for _, lp := range lf.Packages {
		if lp.Source == "" {
			skipped = append(skipped, Skipped{Package: lp, Reason: "local package"})
			continue
		}
		src := deps.SourceID{URL: lp.Source}
		if kind := src.Kind(); kind != "registry" && kind != "sparse" {
			skipped = append(skipped, Skipped{Package: lp, Reason: kind + " source"})
			continue
		}

		pkg := deps.Package{
			Name:     lp.Name,
			Version:  lp.Version,
			Source:   src,
			Checksum: lf.Checksum(lp),
		}
		if err := describe(&pkg, loc); err != nil {
			return nil, nil, errors.Annotate(err, "package", lp.ID())
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, skipped, nil
}

// describe fills in the dependencies and features of pkg from its cached
// archive.
func describe(pkg *deps.Package, loc *cache.Locator) error {
	a, err := loc.Locate(pkg)
	if err != nil {
		return err
	}
	data, err := ReadCrateManifest(a)
	if err != nil {
		return err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return errors.Annotate(err, "file", a.Path)
	}
	if m.Name != "" && m.Name != pkg.Name {
		return errors.New(errors.ErrCodeInvalidManifest, "%s declares package %q", a.Path, m.Name)
	}
	pkg.Dependencies = m.Dependencies
	pkg.Features = m.Features
	return nil
}
