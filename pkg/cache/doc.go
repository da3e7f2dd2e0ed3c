// Package cache finds crate archives in the local Cargo registry cache and
// copies them into a vendored registry's download layout.
//
// # Cache Layout
//
// Cargo stores downloaded crates under $CARGO_HOME/registry/cache, one
// directory per registry named "<host>-<short-hash>":
//
//	registry/cache/index.crates.io-1949cf8c6b5b557f/serde-1.0.193.crate
//	registry/cache/github.com-1ecc6299db9ec823/serde-1.0.193.crate
//
// The short hash is Cargo's hash of the registry's source identity. A
// [deps.SourceID] may carry it explicitly; for crates.io the well-known
// values are tried, and otherwise every "<host>-*" directory is searched.
//
// # Download Layout
//
// [CopyArchive] writes to "<download-root>/<name>/<version>/download", the
// path Cargo derives from a registry's "dl" URL when it has no placeholders.
//
// [deps.SourceID]: github.com/krig/cargo-vendor/pkg/deps.SourceID
package cache
