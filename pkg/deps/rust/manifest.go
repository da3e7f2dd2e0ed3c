package rust

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/krig/cargo-vendor/pkg/deps"
	"github.com/krig/cargo-vendor/pkg/errors"
)

// Manifest is the part of a crate's Cargo.toml that goes into the index.
type Manifest struct {
	Name         string
	Version      string
	Dependencies []deps.Dependency
	Features     map[string][]string
}

// depTables holds the dependency tables of the manifest root or of one
// [target.<cfg>] section. Cargo accepts both spellings of the dev and build
// tables.
type depTables struct {
	Dependencies       map[string]any `toml:"dependencies"`
	DevDependencies    map[string]any `toml:"dev-dependencies"`
	DevDependencies2   map[string]any `toml:"dev_dependencies"`
	BuildDependencies  map[string]any `toml:"build-dependencies"`
	BuildDependencies2 map[string]any `toml:"build_dependencies"`
}

type manifestFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Features map[string][]string  `toml:"features"`
	Target   map[string]depTables `toml:"target"`
}

// ParseManifest decodes a Cargo.toml.
//
// Dependencies are returned sorted by name, then kind, then target. A renamed
// dependency (package = "...") is listed under its real crate name.
func ParseManifest(data []byte) (*Manifest, error) {
	var file manifestFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode Cargo.toml")
	}
	var root depTables
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode Cargo.toml")
	}

	m := &Manifest{
		Name:     file.Package.Name,
		Version:  file.Package.Version,
		Features: file.Features,
	}
	if m.Features == nil {
		m.Features = map[string][]string{}
	}

	var err error
	if m.Dependencies, err = root.collect(nil); err != nil {
		return nil, err
	}
	for cfg, tables := range file.Target {
		target := cfg
		ds, err := tables.collect(&target)
		if err != nil {
			return nil, err
		}
		m.Dependencies = append(m.Dependencies, ds...)
	}

	sort.SliceStable(m.Dependencies, func(i, j int) bool {
		a, b := m.Dependencies[i], m.Dependencies[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return targetString(a.Target) < targetString(b.Target)
	})
	return m, nil
}

func (t depTables) collect(target *string) ([]deps.Dependency, error) {
	var out []deps.Dependency
	for _, tbl := range []struct {
		entries map[string]any
		kind    deps.Kind
	}{
		{t.Dependencies, deps.KindNormal},
		{t.DevDependencies, deps.KindDev},
		{t.DevDependencies2, deps.KindDev},
		{t.BuildDependencies, deps.KindBuild},
		{t.BuildDependencies2, deps.KindBuild},
	} {
		for key, value := range tbl.entries {
			d, err := parseDependency(key, value)
			if err != nil {
				return nil, err
			}
			d.Kind = tbl.kind
			if target != nil {
				tgt := *target
				d.Target = &tgt
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// parseDependency decodes one entry of a dependency table, either
// `name = "req"` or `name = { version = "req", ... }`.
func parseDependency(key string, value any) (deps.Dependency, error) {
	d := deps.Dependency{Name: key, Req: "*", DefaultFeatures: true}

	switch v := value.(type) {
	case string:
		d.Req = v
		return d, nil
	case map[string]any:
		for field, raw := range v {
			var err error
			switch field {
			case "version":
				d.Req, err = asString(raw)
			case "package":
				d.Name, err = asString(raw)
			case "optional":
				d.Optional, err = asBool(raw)
			case "default-features", "default_features":
				d.DefaultFeatures, err = asBool(raw)
			case "features":
				d.Features, err = asStrings(raw)
			}
			if err != nil {
				return d, errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency %q: field %q", key, field)
			}
		}
		return d, nil
	default:
		return d, errors.New(errors.ErrCodeInvalidManifest, "dependency %q: unsupported value of type %T", key, value)
	}
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("want string, got %T", v)
	}
	return s, nil
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("want boolean, got %T", v)
	}
	return b, nil
}

func asStrings(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want array, got %T", v)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, err := asString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func targetString(t *string) string {
	if t == nil {
		return ""
	}
	return *t
}
