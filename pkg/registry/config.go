package registry

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/krig/cargo-vendor/pkg/errors"
)

// ConfigFile is the registry configuration file in the index root.
const ConfigFile = "config.json"

// Config is the content of config.json.
type Config struct {
	DL  string `json:"dl"`
	API string `json:"api"`
}

// WriteConfig writes config.json to indexRoot with exactly
// {"dl":"<dlURL>","api":""}, no trailing newline, in a single write.
func WriteConfig(indexRoot, dlURL string) error {
	path := filepath.Join(indexRoot, ConfigFile)
	content := fmt.Sprintf(`{"dl":"%s","api":""}`, dlURL)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// ReadConfig reads config.json from indexRoot.
func ReadConfig(indexRoot string) (*Config, error) {
	path := filepath.Join(indexRoot, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerialization, err, "parse %s", path)
	}
	return &cfg, nil
}

// FileURL converts a filesystem path to an absolute file:// URL.
// Relative paths are resolved against the working directory first.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathNotURL, err, "failed to convert %q to a URL", path)
	}
	if strings.ContainsRune(abs, 0) {
		return "", errors.New(errors.ErrCodePathNotURL, "failed to convert %q to a URL", path)
	}

	urlPath := filepath.ToSlash(abs)
	// On Windows, add leading slash before drive letter
	if runtime.GOOS == "windows" && len(urlPath) >= 2 && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	if !strings.HasPrefix(urlPath, "/") {
		return "", errors.New(errors.ErrCodePathNotURL, "failed to convert %q to a URL", path)
	}

	u := url.URL{Scheme: "file", Path: urlPath}
	return u.String(), nil
}

// PathFromURL converts a file:// URL back to a filesystem path.
func PathFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathNotURL, err, "parse %q", raw)
	}
	if u.Scheme != "file" {
		return "", errors.New(errors.ErrCodePathNotURL, "%q is not a file URL", raw)
	}
	p := u.Path
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}
