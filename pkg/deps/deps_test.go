package deps

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNormal, "normal"},
		{KindBuild, "build"},
		{KindDev, "dev"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
		parsed, err := ParseKind(tt.want)
		if err != nil || parsed != tt.kind {
			t.Errorf("ParseKind(%q) = %v, %v", tt.want, parsed, err)
		}
	}

	if _, err := ParseKind("weird"); err == nil {
		t.Error("ParseKind(weird) should fail")
	}
}

func TestDependencyDefaultFeatures(t *testing.T) {
	var d Dependency
	if err := json.Unmarshal([]byte(`{"name":"libc","req":"^0.2","kind":"build"}`), &d); err != nil {
		t.Fatal(err)
	}
	if !d.DefaultFeatures {
		t.Error("default_features should default to true")
	}
	if d.Kind != KindBuild {
		t.Errorf("Kind = %v, want build", d.Kind)
	}

	if err := json.Unmarshal([]byte(`{"name":"libc","req":"^0.2","default_features":false}`), &d); err != nil {
		t.Fatal(err)
	}
	if d.DefaultFeatures {
		t.Error("explicit default_features=false was ignored")
	}
}

func TestSourceID(t *testing.T) {
	tests := []struct {
		src      SourceID
		kind     string
		host     string
		cratesIO bool
	}{
		{CratesIO, "registry", "github.com", true},
		{SourceID{URL: "sparse+https://index.crates.io/"}, "sparse", "index.crates.io", true},
		{SourceID{URL: "https://my.registry.example/index"}, "registry", "my.registry.example", false},
	}
	for _, tt := range tests {
		if got := tt.src.Kind(); got != tt.kind {
			t.Errorf("%s Kind() = %q, want %q", tt.src.URL, got, tt.kind)
		}
		host, err := tt.src.Host()
		if err != nil || host != tt.host {
			t.Errorf("%s Host() = %q, %v, want %q", tt.src.URL, host, err, tt.host)
		}
		if got := tt.src.IsCratesIO(); got != tt.cratesIO {
			t.Errorf("%s IsCratesIO() = %v, want %v", tt.src.URL, got, tt.cratesIO)
		}
	}

	if _, err := (SourceID{URL: "path+file:///tmp/x"}).Host(); err == nil {
		t.Error("Host() of a file source should fail")
	}
}

func TestPackageValidate(t *testing.T) {
	tests := []struct {
		name    string
		pkg     Package
		wantErr bool
	}{
		{"ok", Package{Name: "serde", Version: "1.0.0"}, false},
		{"no name", Package{Version: "1.0.0"}, true},
		{"no version", Package{Name: "serde"}, true},
		{"slash", Package{Name: "a/b", Version: "1"}, true},
		{"dotdot", Package{Name: "..", Version: "1"}, true},
		{"mixed case", Package{Name: "Inflector", Version: "0.11.4"}, false},
		{"leading digit", Package{Name: "1abc", Version: "1"}, true},
		{"non-ascii", Package{Name: "aéb", Version: "1"}, true},
		{"version slash", Package{Name: "serde", Version: "1/2"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.pkg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSet(t *testing.T) {
	doc := `
packages:
  - name: serde
    version: 1.0.193
    features:
      default: [std]
      std: []
    dependencies:
      - name: serde_derive
        req: "=1.0.193"
        optional: true
      - name: serde_json
        req: "^1"
        kind: dev
        default_features: false
  - name: libc
    version: 0.2.150
    source:
      url: sparse+https://index.crates.io/
      short_hash: 6f17d22bba15001f
`
	pkgs, err := ParseSet([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSet() error: %v", err)
	}
	if len(pkgs) != 2 {
		t.Fatalf("len = %d, want 2", len(pkgs))
	}

	serde := pkgs[0]
	if serde.ID() != "serde 1.0.193" {
		t.Errorf("ID() = %q", serde.ID())
	}
	if serde.Source != CratesIO {
		t.Errorf("Source = %+v, want crates.io default", serde.Source)
	}
	if len(serde.Features["default"]) != 1 || serde.Features["std"] == nil {
		t.Errorf("Features = %v", serde.Features)
	}
	if d := serde.Dependencies[0]; !d.Optional || !d.DefaultFeatures || d.Kind != KindNormal {
		t.Errorf("serde_derive = %+v", d)
	}
	if d := serde.Dependencies[1]; d.DefaultFeatures || d.Kind != KindDev {
		t.Errorf("serde_json = %+v", d)
	}

	if pkgs[1].Source.ShortHash != "6f17d22bba15001f" {
		t.Errorf("libc source = %+v", pkgs[1].Source)
	}
	if pkgs[1].FileName() != "libc-0.2.150.crate" {
		t.Errorf("FileName() = %q", pkgs[1].FileName())
	}
}

func TestParseSetErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing version", "packages:\n  - name: serde\n"},
		{"unknown field", "packages:\n  - name: serde\n    version: 1.0.0\n    bogus: 1\n"},
		{"bad kind", "packages:\n  - name: a\n    version: '1'\n    dependencies:\n      - {name: b, req: '1', kind: other}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSet([]byte(tt.doc)); err == nil {
				t.Error("ParseSet() should fail")
			}
		})
	}
}

func TestLoadSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.json")
	doc := `{"packages":[{"name":"itoa","version":"1.0.9"}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	pkgs, err := LoadSet(path)
	if err != nil {
		t.Fatalf("LoadSet() error: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].Name != "itoa" {
		t.Errorf("LoadSet() = %+v", pkgs)
	}
}
