// Package registry reads and writes the on-disk format of a local Cargo
// registry.
//
// # Layout
//
//	<root>/cache/<name>/<version>/download   crate archive
//	<root>/index/config.json                 {"dl":"<url>","api":""}
//	<root>/index/<shard>/<name>              one JSON record per line
//
// # Sharding
//
// [IndexPath] maps a crate name to its index file the way every Cargo
// registry does:
//
//	a      -> index/1/a
//	ab     -> index/2/ab
//	abc    -> index/3/a/abc
//	serde  -> index/se/rd/serde
//
// # Records
//
// [PackageRecord] is one line of an index file. [AppendRecord] adds a line
// and never rewrites existing ones, so vendoring a name twice leaves two
// lines behind.
package registry
