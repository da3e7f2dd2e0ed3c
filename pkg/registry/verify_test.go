package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krig/cargo-vendor/pkg/checksum"
	"github.com/krig/cargo-vendor/pkg/deps"
)

func writeDownload(t *testing.T, root, name, version, content string) {
	t.Helper()
	dir := filepath.Join(root, DownloadDir, name, version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "download"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func setupVerifyRegistry(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	indexRoot := filepath.Join(root, IndexDir)
	if err := os.MkdirAll(indexRoot, 0755); err != nil {
		t.Fatal(err)
	}
	dl, err := FileURL(filepath.Join(root, DownloadDir))
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteConfig(indexRoot, dl); err != nil {
		t.Fatal(err)
	}

	writeDownload(t, root, "serde", "1.0.0", "serde")
	writeDownload(t, root, "libc", "0.2.150", "libc")
	for _, rec := range []*PackageRecord{
		NewRecord(&deps.Package{Name: "serde", Version: "1.0.0"}, checksum.Sum([]byte("serde"))),
		NewRecord(&deps.Package{Name: "libc", Version: "0.2.150"}, checksum.Sum([]byte("libc"))),
	} {
		if _, err := AppendRecord(indexRoot, rec); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestVerifyClean(t *testing.T) {
	root := setupVerifyRegistry(t)

	rep, err := Verify(root)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rep.Checked != 2 || !rep.OK() {
		t.Errorf("report = %+v", rep)
	}
}

func TestVerifyProblems(t *testing.T) {
	root := setupVerifyRegistry(t)
	writeDownload(t, root, "serde", "1.0.0", "tampered")
	if err := os.Remove(filepath.Join(root, DownloadDir, "libc", "0.2.150", "download")); err != nil {
		t.Fatal(err)
	}

	rep, err := Verify(root)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rep.OK() || len(rep.Problems) != 2 {
		t.Fatalf("problems = %+v", rep.Problems)
	}
	reasons := make(map[string]string)
	for _, p := range rep.Problems {
		reasons[p.Name] = p.Reason
	}
	if reasons["libc"] != "missing download" {
		t.Errorf("libc reason = %q", reasons["libc"])
	}
	if !strings.HasPrefix(reasons["serde"], "checksum ") {
		t.Errorf("serde reason = %q", reasons["serde"])
	}
}

func TestVerifyNoConfig(t *testing.T) {
	if _, err := Verify(t.TempDir()); err == nil {
		t.Error("expected error for a directory without an index")
	}
}
