package registry

import (
	"strings"
	"testing"

	"github.com/krig/cargo-vendor/pkg/deps"
)

func TestEncodeEmptyCollections(t *testing.T) {
	rec := NewRecord(&deps.Package{Name: "itoa", Version: "1.0.9"}, "00ff")

	line, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := `{"name":"itoa","vers":"1.0.9","deps":[],"features":{},"cksum":"00ff","yanked":false}`
	if string(line) != want {
		t.Errorf("Encode() = %s\nwant      %s", line, want)
	}
}

func TestEncodeDependencies(t *testing.T) {
	target := "cfg(windows)"
	pkg := &deps.Package{
		Name:    "rand",
		Version: "0.8.5",
		Features: map[string][]string{
			"std":     {"rand_core/std"},
			"default": {"std"},
		},
		Dependencies: []deps.Dependency{
			{Name: "libc", Req: "^0.2.22", DefaultFeatures: false, Optional: true},
			{Name: "winapi", Req: ">=0.3, <0.4", Features: []string{"minwindef"}, Target: &target, DefaultFeatures: true},
			{Name: "cc", Req: "^1", Kind: deps.KindBuild, DefaultFeatures: true},
			{Name: "bincode", Req: "^1.2.1", Kind: deps.KindDev, DefaultFeatures: true},
		},
	}

	line, err := Encode(NewRecord(pkg, "abc"))
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	s := string(line)

	for _, want := range []string{
		`{"name":"libc","req":"^0.2.22","features":[],"optional":true,"default_features":false,"target":null,"kind":"normal"}`,
		`{"name":"winapi","req":">=0.3, <0.4","features":["minwindef"],"optional":false,"default_features":true,"target":"cfg(windows)","kind":"normal"}`,
		`"kind":"build"`,
		`"kind":"dev"`,
		`"features":{"default":["std"],"std":["rand_core/std"]}`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded record missing %s\n%s", want, s)
		}
	}
	if strings.Contains(s, "\n") {
		t.Error("encoded record must be a single line")
	}
}

func TestNewRecordCopies(t *testing.T) {
	target := "x86_64-unknown-linux-gnu"
	pkg := &deps.Package{
		Name:         "a",
		Version:      "1",
		Features:     map[string][]string{"f": {"g"}},
		Dependencies: []deps.Dependency{{Name: "b", Req: "1", Target: &target}},
	}
	rec := NewRecord(pkg, "")
	pkg.Features["f"][0] = "changed"
	target = "changed"

	if rec.Features["f"][0] != "g" {
		t.Error("record features should not alias the descriptor")
	}
	if *rec.Deps[0].Target != "x86_64-unknown-linux-gnu" {
		t.Error("record target should not alias the descriptor")
	}
	if rec.Yanked {
		t.Error("new records are never yanked")
	}
}

func TestDecode(t *testing.T) {
	line := []byte(`{"name":"a","vers":"1.0.0","deps":[],"features":{},"cksum":"x","yanked":false}`)
	rec, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if rec.Name != "a" || rec.Vers != "1.0.0" || rec.Cksum != "x" {
		t.Errorf("Decode() = %+v", rec)
	}
	if _, err := Decode([]byte("{")); err == nil {
		t.Error("Decode() of truncated JSON should fail")
	}
}
