package cache

import (
	"io"
	"os"
	"path/filepath"

	vendorerrors "github.com/krig/cargo-vendor/pkg/errors"
)

// DownloadPath returns "<downloadRoot>/<name>/<version>/download".
func DownloadPath(downloadRoot, name, version string) string {
	return filepath.Join(downloadRoot, name, version, "download")
}

// CopyArchive copies a into the download layout under downloadRoot, creating
// parent directories as needed, and returns the destination path.
func CopyArchive(a *Archive, downloadRoot string) (dst string, err error) {
	dst = DownloadPath(downloadRoot, a.Package.Name, a.Package.Version)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "create %s", filepath.Dir(dst))
	}

	src, err := a.Open()
	if err != nil {
		return "", vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "open cached archive %s", a.Path)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "create %s", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			dst, err = "", vendorerrors.Wrap(vendorerrors.ErrCodeIO, cerr, "close %s", dst)
		}
	}()

	if _, err := io.Copy(out, src); err != nil {
		return "", vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "copy %s to %s", a.Path, dst)
	}
	return dst, nil
}
