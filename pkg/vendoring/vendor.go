// Package vendoring turns a resolved package set into a local Cargo registry.
//
// [Vendor] is the whole engine: it prepares the destination, then for each
// package locates the cached crate, copies it into the download layout,
// hashes the copy, and appends an index record, and finally commits the
// index tree as an initial snapshot. Everything runs sequentially in input
// order and the first failure aborts the run without cleaning up.
package vendoring

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/krig/cargo-vendor/pkg/cache"
	"github.com/krig/cargo-vendor/pkg/checksum"
	"github.com/krig/cargo-vendor/pkg/deps"
	"github.com/krig/cargo-vendor/pkg/errors"
	"github.com/krig/cargo-vendor/pkg/observability"
	"github.com/krig/cargo-vendor/pkg/registry"
	"github.com/krig/cargo-vendor/pkg/vcs"
)

// Stage names recorded in error context.
const (
	StageValidate = "validate"
	StageLocate   = "locate"
	StageCopy     = "copy"
	StageChecksum = "checksum"
	StageIndex    = "index"
)

// Options configures a vendoring run.
type Options struct {
	// Root is the destination directory. It may exist, but must not
	// contain index/ or cache/ unless Fresh is set.
	Root string

	// Locator finds cached archives. Only packages with an explicit
	// Archive can be vendored without one.
	Locator *cache.Locator

	// Backend records the index snapshot (default: git).
	Backend vcs.Backend

	// Identity of the snapshot commit. Nil means ambient git configuration.
	Identity *vcs.Identity

	// Fresh removes an existing index/ and cache/ under Root first.
	Fresh bool

	// Logger receives progress at debug level (default: discard).
	Logger *log.Logger
}

// Result describes a completed run.
type Result struct {
	RunID       string
	IndexDir    string
	DownloadDir string
	IndexURL    string // file:// URL of the index, for .cargo/config
	DownloadURL string // "dl" value written to config.json
	Records     []*registry.PackageRecord
	Snapshot    vcs.Snapshot
	Duration    time.Duration
}

// Vendor builds a registry under opts.Root from pkgs.
func Vendor(ctx context.Context, pkgs []deps.Package, opts Options) (res *Result, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	backend := opts.Backend
	if backend == nil {
		backend = vcs.GitBackend{}
	}

	start := time.Now()
	runID := uuid.NewString()
	logger = logger.With("run", runID[:8])
	hooks := observability.Vendor()
	hooks.OnRunStart(ctx, runID, len(pkgs))
	defer func() { hooks.OnRunComplete(ctx, runID, time.Since(start), err) }()

	indexDir := filepath.Join(opts.Root, registry.IndexDir)
	downloadDir := filepath.Join(opts.Root, registry.DownloadDir)

	// URLs first, so an unusable root fails before anything is created.
	indexURL, err := registry.FileURL(indexDir)
	if err != nil {
		return nil, err
	}
	dlURL, err := registry.FileURL(downloadDir)
	if err != nil {
		return nil, err
	}

	if err := prepare(opts.Root, indexDir, downloadDir, opts.Fresh); err != nil {
		return nil, err
	}

	tree, err := backend.Init(indexDir)
	if err != nil {
		return nil, classify(err, errors.ErrCodeRepositoryInit, "initialize %s repository in %s", backend.Name(), indexDir)
	}

	if err := registry.WriteConfig(indexDir, dlURL); err != nil {
		return nil, err
	}
	logger.Debug("prepared registry", "index", indexDir, "dl", dlURL, "backend", backend.Name())

	res = &Result{
		RunID:       runID,
		IndexDir:    indexDir,
		DownloadDir: downloadDir,
		IndexURL:    indexURL,
		DownloadURL: dlURL,
		Records:     make([]*registry.PackageRecord, 0, len(pkgs)),
	}

	for i := range pkgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg := &pkgs[i]

		pkgStart := time.Now()
		hooks.OnPackageStart(ctx, pkg.Name, pkg.Version)
		rec, err := vendorPackage(pkg, opts.Locator, indexDir, downloadDir)
		if err != nil {
			err = errors.Annotate(err, "package", pkg.ID())
			hooks.OnPackageComplete(ctx, pkg.Name, pkg.Version, "", time.Since(pkgStart), err)
			return nil, err
		}
		hooks.OnPackageComplete(ctx, pkg.Name, pkg.Version, rec.Cksum, time.Since(pkgStart), nil)
		logger.Debug("vendored package", "name", rec.Name, "version", rec.Vers, "cksum", rec.Cksum[:12])
		res.Records = append(res.Records, rec)
	}

	snap, err := vcs.CommitInitial(tree, vcs.InitialMessage, opts.Identity)
	hooks.OnCommit(ctx, backend.Name(), snap.Commit, snap.Files, err)
	if err != nil {
		return nil, errors.Annotate(err, "stage", "commit")
	}
	logger.Debug("committed index", "commit", snap.Commit, "files", snap.Files)

	res.Snapshot = snap
	res.Duration = time.Since(start)
	return res, nil
}

// prepare creates root and, non-recursively, the index and download
// directories. Either one already existing is an error unless fresh is set.
func prepare(root, indexDir, downloadDir string, fresh bool) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", root)
	}
	for _, dir := range []string{indexDir, downloadDir} {
		if fresh {
			if err := os.RemoveAll(dir); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "remove %s", dir)
			}
		}
		if err := os.Mkdir(dir, 0755); err != nil {
			if os.IsExist(err) {
				return errors.Wrap(errors.ErrCodeDirectoryExists, err,
					"%s already exists; vendor into a new destination or use a fresh run", dir)
			}
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}
	return nil
}

// vendorPackage runs the per-package stages and returns the appended record.
func vendorPackage(pkg *deps.Package, loc *cache.Locator, indexDir, downloadDir string) (*registry.PackageRecord, error) {
	if err := pkg.Validate(); err != nil {
		return nil, stage(errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid package"), StageValidate)
	}

	var archive *cache.Archive
	var err error
	switch {
	case pkg.Archive != "":
		archive, err = cache.NewLocator("").Locate(pkg)
	case loc == nil:
		err = errors.New(errors.ErrCodeInvalidInput, "no registry cache configured to locate %s", pkg.FileName())
	default:
		archive, err = loc.Locate(pkg)
	}
	if err != nil {
		return nil, stage(err, StageLocate)
	}

	dst, err := cache.CopyArchive(archive, downloadDir)
	if err != nil {
		return nil, stage(err, StageCopy)
	}

	// Hash the copy, not the cache file, so a bad copy shows up as a
	// checksum mismatch downstream.
	cksum, err := checksum.File(dst)
	if err != nil {
		return nil, stage(errors.Wrap(errors.ErrCodeIO, err, "read %s", dst), StageChecksum)
	}
	if pkg.Checksum != "" && pkg.Checksum != cksum {
		return nil, stage(errors.New(errors.ErrCodeChecksumMismatch,
			"checksum of %s is %s, expected %s", dst, cksum, pkg.Checksum), StageChecksum)
	}

	rec := registry.NewRecord(pkg, cksum)
	if _, err := registry.AppendRecord(indexDir, rec); err != nil {
		return nil, stage(err, StageIndex)
	}
	return rec, nil
}

func stage(err error, name string) error {
	return errors.Annotate(err, "stage", name)
}

// classify wraps err with code unless it already carries one.
func classify(err error, code errors.Code, format string, args ...any) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(code, err, format, args...)
}
