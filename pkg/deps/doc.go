// Package deps defines the resolved package set consumed by the vendoring
// engine.
//
// # Overview
//
// cargo-vendor does not resolve dependencies itself. Whatever produced the
// resolution (Cargo, a lockfile reader, a hand-written set file) hands over an
// ordered slice of [Package] values; the order is the order in which crates
// are vendored and therefore the order of lines in each index file.
//
// # Package Data
//
// Each [Package] carries:
//
//   - Name, Version: crate identity
//   - Dependencies: [Dependency] entries as they appear in the crate manifest
//   - Features: feature name to enabled features, copied verbatim to the index
//   - Source: the [SourceID] used to find the crate in the local registry cache
//   - Archive, Checksum: optional overrides for the archive path and the
//     expected digest
//
// # Loading
//
// [LoadSet] reads a YAML or JSON package set. The rust subpackage builds
// packages from a Cargo.lock and the cached crate archives.
package deps
