package deps

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/krig/cargo-vendor/pkg/errors"
)

// Kind is the dependency kind recorded in the index.
type Kind int

const (
	KindNormal Kind = iota // [dependencies]
	KindBuild              // [build-dependencies]
	KindDev                // [dev-dependencies]
)

// String returns the index spelling of k: "normal", "build" or "dev".
func (k Kind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindDev:
		return "dev"
	default:
		return "normal"
	}
}

// ParseKind parses an index kind string. The empty string means normal.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "normal":
		return KindNormal, nil
	case "build":
		return KindBuild, nil
	case "dev":
		return KindDev, nil
	default:
		return KindNormal, fmt.Errorf("unknown dependency kind %q", s)
	}
}

// MarshalJSON encodes k as its string form.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind string.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Dependency describes one dependency edge of a package.
type Dependency struct {
	Name            string   `json:"name"`
	Req             string   `json:"req"`
	Features        []string `json:"features,omitempty"`
	Optional        bool     `json:"optional,omitempty"`
	DefaultFeatures bool     `json:"default_features"`
	Target          *string  `json:"target,omitempty"` // cfg() or triple, nil for all platforms
	Kind            Kind     `json:"kind"`
}

// UnmarshalJSON applies Cargo's default of default_features = true.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	type plain Dependency
	aux := struct {
		*plain
		DefaultFeatures *bool `json:"default_features"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.DefaultFeatures = aux.DefaultFeatures == nil || *aux.DefaultFeatures
	return nil
}

// SourceID identifies the registry a package was fetched from.
type SourceID struct {
	// URL of the registry index, optionally prefixed with "registry+" or
	// "sparse+" as written in Cargo.lock.
	URL string `json:"url"`

	// ShortHash is the hash suffix of the registry's cache directory
	// ("<host>-<hash>"). Empty means derive it.
	ShortHash string `json:"short_hash,omitempty"`
}

// CratesIO is the source of packages from the default registry.
var CratesIO = SourceID{URL: "registry+https://github.com/rust-lang/crates.io-index"}

// Kind returns the protocol prefix of the source ("registry", "sparse",
// "git", "path"), or "registry" when the URL has none.
func (s SourceID) Kind() string {
	if i := strings.Index(s.URL, "+"); i > 0 && !strings.Contains(s.URL[:i], "://") {
		return s.URL[:i]
	}
	return "registry"
}

// Location returns the URL without its protocol prefix.
func (s SourceID) Location() string {
	if i := strings.Index(s.URL, "+"); i > 0 && !strings.Contains(s.URL[:i], "://") {
		return s.URL[i+1:]
	}
	return s.URL
}

// Host returns the host name of the registry URL.
func (s SourceID) Host() (string, error) {
	u, err := url.Parse(s.Location())
	if err != nil {
		return "", fmt.Errorf("parse source %q: %w", s.URL, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("source %q has no host", s.URL)
	}
	return u.Hostname(), nil
}

// IsCratesIO reports whether s points at crates.io, through either the git
// or the sparse index.
func (s SourceID) IsCratesIO() bool {
	loc := strings.TrimSuffix(s.Location(), "/")
	return loc == "https://github.com/rust-lang/crates.io-index" || loc == "https://index.crates.io"
}

// Package is one resolved package to vendor.
type Package struct {
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	Dependencies []Dependency        `json:"dependencies,omitempty"`
	Features     map[string][]string `json:"features,omitempty"`
	Source       SourceID            `json:"source"`

	// Archive, when set, is used instead of looking the crate up in the
	// registry cache.
	Archive string `json:"archive,omitempty"`

	// Checksum, when set, is the expected digest of the archive.
	Checksum string `json:"checksum,omitempty"`
}

// ID returns "name version", the identity used in messages and error context.
func (p *Package) ID() string {
	return p.Name + " " + p.Version
}

// FileName returns the cached archive file name, "<name>-<version>.crate".
func (p *Package) FileName() string {
	return p.Name + "-" + p.Version + ".crate"
}

// Validate checks the fields the vendoring engine relies on.
func (p *Package) Validate() error {
	if err := errors.ValidateCratesPackageName(p.Name); err != nil {
		return err
	}
	if p.Version == "" {
		return fmt.Errorf("package %s has no version", p.Name)
	}
	if strings.ContainsAny(p.Version, `/\`) {
		return fmt.Errorf("package %s version %q is not a valid path component", p.Name, p.Version)
	}
	return nil
}
