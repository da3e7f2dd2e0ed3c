package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krig/cargo-vendor/pkg/deps"
)

func TestAppendRecordTwoVersions(t *testing.T) {
	root := t.TempDir()

	first := NewRecord(&deps.Package{Name: "serde", Version: "1.0.0"}, "aa")
	second := NewRecord(&deps.Package{Name: "serde", Version: "1.0.1"}, "bb")

	p1, err := AppendRecord(root, first)
	if err != nil {
		t.Fatalf("AppendRecord() error: %v", err)
	}
	p2, err := AppendRecord(root, second)
	if err != nil {
		t.Fatalf("AppendRecord() error: %v", err)
	}
	if p1 != p2 || p1 != filepath.Join(root, "se", "rd", "serde") {
		t.Errorf("paths = %s, %s", p1, p2)
	}

	data, err := os.ReadFile(p1)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], `"vers":"1.0.0"`) || !strings.Contains(lines[1], `"vers":"1.0.1"`) {
		t.Errorf("lines out of order:\n%s", data)
	}

	recs, err := ReadRecords(root, "serde")
	if err != nil {
		t.Fatalf("ReadRecords() error: %v", err)
	}
	if len(recs) != 2 || recs[0].Cksum != "aa" || recs[1].Cksum != "bb" {
		t.Errorf("ReadRecords() = %+v", recs)
	}
}

func TestAppendRecordNoDeduplication(t *testing.T) {
	root := t.TempDir()
	rec := NewRecord(&deps.Package{Name: "a", Version: "1"}, "x")
	for i := 0; i < 3; i++ {
		if _, err := AppendRecord(root, rec); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := ReadRecords(root, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Errorf("got %d records, want 3", len(recs))
	}
}

func TestReadRecordsMissing(t *testing.T) {
	recs, err := ReadRecords(t.TempDir(), "nothing")
	if err != nil || recs != nil {
		t.Errorf("ReadRecords() = %v, %v; want nil, nil", recs, err)
	}
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "abc", "serde"} {
		if _, err := AppendRecord(root, NewRecord(&deps.Package{Name: name, Version: "1"}, "x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := WriteConfig(root, "file:///tmp/cache"); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".git", "objects"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/master\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var names []string
	err := Walk(root, func(path string, recs []*PackageRecord) error {
		for _, r := range recs {
			names = append(names, r.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if strings.Join(names, ",") != "a,abc,serde" {
		t.Errorf("Walk() visited %v", names)
	}
}
