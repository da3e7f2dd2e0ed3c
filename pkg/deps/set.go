package deps

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Set is the document form of a resolved package set.
//
//	packages:
//	  - name: serde
//	    version: 1.0.193
//	    source: {url: "registry+https://github.com/rust-lang/crates.io-index"}
//	    features: {default: [std], std: []}
//	    dependencies:
//	      - {name: serde_derive, req: "=1.0.193", optional: true}
type Set struct {
	Packages []Package `json:"packages"`
}

// ParseSet decodes a YAML or JSON package set. Packages without a source are
// assumed to come from crates.io.
func ParseSet(data []byte) ([]Package, error) {
	var set Set
	if err := yaml.UnmarshalStrict(data, &set); err != nil {
		return nil, err
	}
	for i := range set.Packages {
		p := &set.Packages[i]
		if p.Source.URL == "" {
			p.Source = CratesIO
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("package #%d: %w", i+1, err)
		}
	}
	return set.Packages, nil
}

// LoadSet reads a package set file.
func LoadSet(path string) ([]Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pkgs, err := ParseSet(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pkgs, nil
}
