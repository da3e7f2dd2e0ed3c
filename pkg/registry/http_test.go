package registry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krig/cargo-vendor/pkg/deps"
)

func setupServedRegistry(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	index := filepath.Join(root, IndexDir)
	if err := os.MkdirAll(filepath.Join(index, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(index, ".git", "config"), []byte("[core]"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteConfig(index, "file:///elsewhere"); err != nil {
		t.Fatal(err)
	}
	if _, err := AppendRecord(index, NewRecord(&deps.Package{Name: "serde", Version: "1.0.0"}, "aa")); err != nil {
		t.Fatal(err)
	}
	dl := filepath.Join(root, DownloadDir, "serde", "1.0.0", "download")
	if err := os.MkdirAll(filepath.Dir(dl), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dl, []byte("crate-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerConfig(t *testing.T) {
	h := NewHandler(setupServedRegistry(t), HandlerOptions{BaseURL: "http://registry.local:8080/"})

	rec := get(t, h, "/index/config.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cfg Config
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.DL != "http://registry.local:8080/cache" {
		t.Errorf("dl = %q", cfg.DL)
	}
}

func TestHandlerConfigFromHost(t *testing.T) {
	h := NewHandler(setupServedRegistry(t), HandlerOptions{})
	rec := get(t, h, "http://example.test/index/config.json")
	if !strings.Contains(rec.Body.String(), `"dl":"http://example.test/cache"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandlerIndexAndDownload(t *testing.T) {
	h := NewHandler(setupServedRegistry(t), HandlerOptions{})

	rec := get(t, h, "/index/se/rd/serde")
	if rec.Code != http.StatusOK {
		t.Fatalf("index status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"vers":"1.0.0"`) {
		t.Errorf("index body = %s", rec.Body.String())
	}

	rec = get(t, h, "/cache/serde/1.0.0/download")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "crate-bytes" {
		t.Errorf("download body = %q", body)
	}
}

func TestHandlerIndexMixedCase(t *testing.T) {
	root := setupServedRegistry(t)
	index := filepath.Join(root, IndexDir)
	if _, err := AppendRecord(index, NewRecord(&deps.Package{Name: "Inflector", Version: "0.11.4"}, "bb")); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(root, HandlerOptions{})

	for _, target := range []string{"/index/in/fl/inflector", "/index/In/fl/Inflector"} {
		rec := get(t, h, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"name":"Inflector"`) {
			t.Errorf("GET %s body = %s", target, rec.Body.String())
		}
	}
	if rec := get(t, h, "/index/in/fl/inflectorx"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerNotFound(t *testing.T) {
	h := NewHandler(setupServedRegistry(t), HandlerOptions{})

	for _, target := range []string{
		"/index/.git/config",
		"/index/se/rd/missing",
		"/index/se/rd",
		"/cache/serde/2.0.0/download",
		"/cache/.git/x/download",
		"/elsewhere",
	} {
		if rec := get(t, h, target); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", target, rec.Code)
		}
	}
}
