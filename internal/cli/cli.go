// Package cli implements the ratiogrid command-line interface.
//
// # Commands
//
//   - layout: compute the bounds table of a dataset and write it as JSON
//   - range: print the items visible in a viewport
//   - simulate: replay a script of scrolls and dataset changes
//   - browse: scroll a live grid in the terminal
//   - serve: run the HTTP API
//   - cache: manage the bounds table cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports layout passes and cache traffic. Loggers are passed through
// context.Context as well as the CLI struct.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiogrid/pkg/buildinfo"
	"github.com/matzehuels/ratiogrid/pkg/cache"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ratiogrid"

	// envRedisAddr selects the Redis cache when set.
	envRedisAddr = "RATIOGRID_REDIS_ADDR"

	redisDialTimeout = 2 * time.Second
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
		Use:          appName,
		Short:        "Ratiogrid lays out aspect-ratio items in justified rows",
		Long:         `Ratiogrid packs items of known aspect ratio into rows that fill the available width, and keeps only the items near the viewport realized while scrolling through large datasets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			if c.Logger.GetLevel() <= log.DebugLevel {
				registerLogHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/ratiogrid/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.rangeCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.config.Cache.TTL.Duration
	return r, nil
}

// newCache picks Redis when an address is configured and reachable, the
// file cache otherwise.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.redisAddr(); addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:        addr,
			Prefix:      c.config.Cache.Prefix,
			DialTimeout: redisDialTimeout,
		})
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", addr)
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using the file cache", "addr", addr, "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) redisAddr() string {
	if addr := os.Getenv(envRedisAddr); addr != "" {
		return addr
	}
	return c.config.Cache.RedisAddr
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ratiogrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configFile returns the default config path (~/.config/ratiogrid/config.toml).
func configFile() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
