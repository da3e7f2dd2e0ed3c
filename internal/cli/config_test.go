package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/krig/cargo-vendor/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, `cargo_home = "/opt/cargo"
backend = "manifest"

[author]
name = "Vendor Bot"
email = "bot@example.com"

[serve]
addr = ":9000"
`)
	cfg, err := readConfig(path, true)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.CargoHome != "/opt/cargo" || cfg.Backend != "manifest" || cfg.Serve.Addr != ":9000" {
		t.Errorf("config = %+v", cfg)
	}
	id := cfg.Identity()
	if id == nil || id.String() != "Vendor Bot <bot@example.com>" {
		t.Errorf("Identity() = %v", id)
	}
}

func TestReadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := readConfig(path, false)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Identity() != nil {
		t.Error("empty config should have no identity")
	}

	if _, err := readConfig(path, true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("required missing config err = %v", err)
	}
}

func TestReadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, "cargo_hme = \"/typo\"\n")
	if _, err := readConfig(path, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestCargoHome(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)

	t.Setenv("CARGO_HOME", "/env/cargo")
	if got, _ := c.cargoHome("/flag/cargo"); got != "/flag/cargo" {
		t.Errorf("flag: got %s", got)
	}
	if got, _ := c.cargoHome(""); got != "/env/cargo" {
		t.Errorf("env: got %s", got)
	}
	c.config.CargoHome = "/config/cargo"
	if got, _ := c.cargoHome(""); got != "/config/cargo" {
		t.Errorf("config: got %s", got)
	}

	t.Setenv("CARGO_HOME", "")
	c.config.CargoHome = ""
	t.Setenv("HOME", "/home/tester")
	if got, _ := c.cargoHome(""); got != filepath.Join("/home/tester", ".cargo") {
		t.Errorf("default: got %s", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := configDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/xdg", "cargo-vendor") {
		t.Errorf("configDir() = %s", dir)
	}
}
