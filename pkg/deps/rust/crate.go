package rust

import (
	"archive/tar"
	"io"
	"path"

	"github.com/klauspost/compress/gzip"

	"github.com/krig/cargo-vendor/pkg/cache"
	"github.com/krig/cargo-vendor/pkg/errors"
)

// maxManifestSize bounds how much of a Cargo.toml entry is read.
const maxManifestSize = 4 << 20

// ReadCrateManifest returns the Cargo.toml packed in a .crate archive. The
// archive is a gzipped tarball whose files live under "<name>-<version>/".
func ReadCrateManifest(a *cache.Archive) ([]byte, error) {
	f, err := a.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", a.Path)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s is not a gzip archive", a.Path)
	}
	defer zr.Close()

	want := path.Join(a.Package.Name+"-"+a.Package.Version, "Cargo.toml")
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", a.Path)
		}
		if path.Clean(hdr.Name) != want || !hdr.FileInfo().Mode().IsRegular() {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(tr, maxManifestSize))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s from %s", want, a.Path)
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "%s has no %s", a.Path, want)
}
