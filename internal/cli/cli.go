package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/krig/cargo-vendor/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cargo-vendor"

	// defaultServeAddr is where `serve` listens without --addr or config.
	defaultServeAddr = "127.0.0.1:8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cargo-vendor turns cached crates into a local registry",
		Long: `cargo-vendor copies crates from the local Cargo registry cache into a
self-contained registry directory: a download tree plus an index committed to
git, which Cargo can build against offline.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cargo-vendor/config.toml)")

	// Register all subcommands
	root.AddCommand(c.vendorCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/cargo-vendor/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cargoHome picks the Cargo home directory: flag, then config file, then
// $CARGO_HOME, then ~/.cargo.
func (c *CLI) cargoHome(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if c.config.CargoHome != "" {
		return c.config.CargoHome, nil
	}
	if env := os.Getenv("CARGO_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cargo"), nil
}

// registryCache returns the crate cache root under a Cargo home.
func registryCache(cargoHome string) string {
	return filepath.Join(cargoHome, "registry", "cache")
}
