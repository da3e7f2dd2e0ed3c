package registry

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/krig/cargo-vendor/pkg/cache"
	"github.com/krig/cargo-vendor/pkg/checksum"
	vendorerrors "github.com/krig/cargo-vendor/pkg/errors"
)

// Problem is one index record whose download does not match.
type Problem struct {
	Name    string
	Version string
	Path    string
	Reason  string
}

// Report is the outcome of Verify.
type Report struct {
	Checked  int
	Problems []Problem
}

// OK reports whether every record matched its download.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Verify re-hashes the download of every record in the registry at root and
// compares it with the record's cksum. The download directory is taken from
// the dl URL of config.json when it is a file URL, else <root>/cache.
func Verify(root string) (*Report, error) {
	indexRoot := filepath.Join(root, IndexDir)
	cfg, err := ReadConfig(indexRoot)
	if err != nil {
		return nil, err
	}
	downloadRoot := filepath.Join(root, DownloadDir)
	if p, err := PathFromURL(cfg.DL); err == nil {
		downloadRoot = p
	}

	rep := &Report{}
	err = Walk(indexRoot, func(_ string, recs []*PackageRecord) error {
		for _, rec := range recs {
			rep.Checked++
			path := cache.DownloadPath(downloadRoot, rec.Name, rec.Vers)
			sum, err := checksum.File(path)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				rep.Problems = append(rep.Problems, Problem{rec.Name, rec.Vers, path, "missing download"})
			case err != nil:
				return vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "read %s", path)
			case sum != rec.Cksum:
				rep.Problems = append(rep.Problems, Problem{rec.Name, rec.Vers, path, "checksum " + sum + " does not match index " + rec.Cksum})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}
