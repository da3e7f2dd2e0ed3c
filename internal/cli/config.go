package cli

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	vendorerrors "github.com/krig/cargo-vendor/pkg/errors"
	"github.com/krig/cargo-vendor/pkg/vcs"
)

// configFile is the name of the config file inside configDir.
const configFile = "config.toml"

// Config is the optional user configuration.
//
//	cargo_home = "/home/me/.cargo"
//	backend = "git"
//
//	[author]
//	name = "Vendor Bot"
//	email = "bot@example.com"
//
//	[serve]
//	addr = "127.0.0.1:8080"
type Config struct {
	CargoHome string `toml:"cargo_home"`
	Backend   string `toml:"backend"`
	Author    struct {
		Name  string `toml:"name"`
		Email string `toml:"email"`
	} `toml:"author"`
	Serve struct {
		Addr string `toml:"addr"`
	} `toml:"serve"`
}

// Identity returns the configured commit identity, or nil unless both name
// and email are set.
func (cfg *Config) Identity() *vcs.Identity {
	if cfg.Author.Name == "" || cfg.Author.Email == "" {
		return nil
	}
	return &vcs.Identity{Name: cfg.Author.Name, Email: cfg.Author.Email}
}

// readConfig decodes a config file. A missing file yields an empty config
// unless required is set; unknown keys are an error.
func readConfig(path string, required bool) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return &cfg, nil
	}
	if err != nil {
		return nil, vendorerrors.Wrap(vendorerrors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, vendorerrors.New(vendorerrors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// loadConfig reads --config, or the default config file when the flag is
// unset.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
	}
	cfg, err := readConfig(path, c.configPath != "")
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.config = cfg
	return nil
}
