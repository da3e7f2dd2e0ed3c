package registry

import (
	"bytes"
	"encoding/json"

	"github.com/krig/cargo-vendor/pkg/deps"
	"github.com/krig/cargo-vendor/pkg/errors"
)

// PackageRecord is one version of a crate as listed in an index file.
// Every field is always serialized.
type PackageRecord struct {
	Name     string              `json:"name"`
	Vers     string              `json:"vers"`
	Deps     []DependencyRecord  `json:"deps"`
	Features map[string][]string `json:"features"`
	Cksum    string              `json:"cksum"`
	Yanked   bool                `json:"yanked"`
}

// DependencyRecord is one entry of PackageRecord.Deps.
type DependencyRecord struct {
	Name            string   `json:"name"`
	Req             string   `json:"req"`
	Features        []string `json:"features"`
	Optional        bool     `json:"optional"`
	DefaultFeatures bool     `json:"default_features"`
	Target          *string  `json:"target"`
	Kind            string   `json:"kind"`
}

// NewRecord builds the index record of pkg with the given archive digest.
// Features are copied verbatim; nil collections become empty ones so the
// encoded line has "[]" and "{}" rather than null.
func NewRecord(pkg *deps.Package, cksum string) *PackageRecord {
	rec := &PackageRecord{
		Name:     pkg.Name,
		Vers:     pkg.Version,
		Deps:     make([]DependencyRecord, 0, len(pkg.Dependencies)),
		Features: make(map[string][]string, len(pkg.Features)),
		Cksum:    cksum,
		Yanked:   false,
	}
	for name, enabled := range pkg.Features {
		rec.Features[name] = nonNil(enabled)
	}
	for _, d := range pkg.Dependencies {
		var target *string
		if d.Target != nil {
			t := *d.Target
			target = &t
		}
		rec.Deps = append(rec.Deps, DependencyRecord{
			Name:            d.Name,
			Req:             d.Req,
			Features:        nonNil(d.Features),
			Optional:        d.Optional,
			DefaultFeatures: d.DefaultFeatures,
			Target:          target,
			Kind:            d.Kind.String(),
		})
	}
	return rec
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}

// Encode renders rec as a single JSON line without the trailing newline.
//
// Encoding a PackageRecord cannot fail for any value NewRecord produces; a
// failure is reported as SERIALIZATION_FAILURE rather than a panic.
func Encode(rec *PackageRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerialization, err, "encode index record for %s %s", rec.Name, rec.Vers)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses one index line.
func Decode(line []byte) (*PackageRecord, error) {
	var rec PackageRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerialization, err, "decode index record")
	}
	return &rec, nil
}
