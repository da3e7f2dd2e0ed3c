// Package rust reads the Cargo files a vendoring run starts from.
//
// # Lockfiles
//
// [LoadLockfile] parses Cargo.lock. Both the current format (checksums on
// each [[package]]) and the version 1 format (checksums in [metadata]) are
// understood:
//
//	lf, _ := rust.LoadLockfile("Cargo.lock")
//	pkgs, skipped, _ := rust.FromLockfile(lf, cache.NewLocator(cacheRoot))
//
// # Crate Manifests
//
// A lockfile pins versions but says nothing about dependency requirements or
// features. Those come from the Cargo.toml packed inside each cached .crate
// archive, read by [ReadCrateManifest] and decoded by [ParseManifest].
package rust
