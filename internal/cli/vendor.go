package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/krig/cargo-vendor/pkg/cache"
	"github.com/krig/cargo-vendor/pkg/deps"
	"github.com/krig/cargo-vendor/pkg/deps/rust"
	"github.com/krig/cargo-vendor/pkg/errors"
	"github.com/krig/cargo-vendor/pkg/observability"
	"github.com/krig/cargo-vendor/pkg/vcs"
	"github.com/krig/cargo-vendor/pkg/vendoring"
)

// defaultLockfile is read when neither --lockfile nor --set is given.
const defaultLockfile = "Cargo.lock"

// vendorFlags holds flags for the vendor command.
type vendorFlags struct {
	lockfile  string
	set       string
	cargoHome string
	backend   string
	author    string
	fresh     bool
}

// vendorCommand creates the vendor command.
func (c *CLI) vendorCommand() *cobra.Command {
	var flags vendorFlags

	cmd := &cobra.Command{
		Use:   "vendor <dest>",
		Short: "Build a local registry from cached crates",
		Long: `Build a local registry in <dest> from crates already in the Cargo registry cache.

Packages come from a Cargo.lock (registry packages only; path and git
packages are skipped) or from a YAML/JSON package set. Every crate must
already be downloaded, e.g. by a previous "cargo fetch".`,
		Example: `  # Vendor everything in ./Cargo.lock
  cargo-vendor vendor ../registry

  # Vendor an explicit package set, replacing a previous run
  cargo-vendor vendor ../registry --set packages.yaml --fresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVendor(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.lockfile, "lockfile", "", "Cargo.lock to vendor (default ./Cargo.lock)")
	cmd.Flags().StringVar(&flags.set, "set", "", "YAML or JSON package set to vendor")
	cmd.Flags().StringVar(&flags.cargoHome, "cargo-home", "", "Cargo home holding registry/cache (default $CARGO_HOME or ~/.cargo)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "index history backend: git or manifest (default git)")
	cmd.Flags().StringVar(&flags.author, "author", "", `commit identity as "Name <email>" (default from git config)`)
	cmd.Flags().BoolVar(&flags.fresh, "fresh", false, "remove an existing index and cache in <dest> first")
	cmd.MarkFlagsMutuallyExclusive("lockfile", "set")

	return cmd
}

func (c *CLI) runVendor(ctx context.Context, w io.Writer, dest string, flags vendorFlags) error {
	home, err := c.cargoHome(flags.cargoHome)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "locate cargo home")
	}
	loc := cache.NewLocator(registryCache(home))
	c.Logger.Debug("using registry cache", "path", loc.Root())

	pkgs, err := c.loadPackages(w, flags, loc)
	if err != nil {
		return err
	}

	backendName := flags.backend
	if backendName == "" {
		backendName = c.config.Backend
	}
	backend, err := vcs.NewBackend(backendName)
	if err != nil {
		return err
	}

	id := c.config.Identity()
	if flags.author != "" {
		if id, err = vcs.ParseIdentity(flags.author); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "--author")
		}
	}

	observability.SetVendorHooks(newProgressHooks(c.Logger))
	defer observability.Reset()

	prog := newProgress(c.Logger)
	res, err := vendoring.Vendor(ctx, pkgs, vendoring.Options{
		Root:     dest,
		Locator:  loc,
		Backend:  backend,
		Identity: id,
		Fresh:    flags.fresh,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Vendored %d packages", len(res.Records)))

	printSuccess(w, "Registry written to %s", dest)
	printDetail(w, "%s snapshot %s · %d files", backend.Name(), shortID(res.Snapshot.Commit), res.Snapshot.Files)
	printCargoConfig(w, res.IndexURL)
	return nil
}

// loadPackages reads the package set or lockfile named by flags.
func (c *CLI) loadPackages(w io.Writer, flags vendorFlags, loc *cache.Locator) ([]deps.Package, error) {
	if flags.set != "" {
		pkgs, err := deps.LoadSet(flags.set)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load package set")
		}
		c.Logger.Debug("loaded package set", "path", flags.set, "packages", len(pkgs))
		return pkgs, nil
	}

	path := flags.lockfile
	if path == "" {
		path = defaultLockfile
	}
	lf, err := rust.LoadLockfile(path)
	if err != nil {
		return nil, err
	}
	pkgs, skipped, err := rust.FromLockfile(lf, loc)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		if s.Package.Source == "" {
			c.Logger.Debug("skipping local package", "name", s.Package.Name, "version", s.Package.Version)
			continue
		}
		printWarning(w, "skipping %s (%s)", s.Package.ID(), s.Reason)
	}
	c.Logger.Debug("loaded lockfile", "path", path, "packages", len(pkgs), "skipped", len(skipped))
	return pkgs, nil
}
