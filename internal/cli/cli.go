// Package cli implements the studio command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/internal/config"
	"github.com/mubarakmarafa/studio-style-creator/pkg/buildinfo"
	"github.com/mubarakmarafa/studio-style-creator/pkg/cache"
	"github.com/mubarakmarafa/studio-style-creator/pkg/pipeline"
	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
	"github.com/mubarakmarafa/studio-style-creator/pkg/textfill"
)

// ====== Constants ======

// appName is the application name used for directories and display.
const appName = "studio"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ====== CLI - Central CLI State ======

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
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
		Short:        "Studio generates page variations from layouts and modules",
		Long:         `Studio is a template composition engine: it stacks module elements, fits layout canvases, enumerates every slot-to-module assignment, and renders the composed pages with generated copy.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/studio/config.toml)")

	// Register all subcommands
	root.AddCommand(c.stackCommand())
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.slotsCommand())
	root.AddCommand(c.specsCommand())
	root.AddCommand(c.countCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ====== Runner Factory ======

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisPassword, c.cfg.Cache.RedisDB)
	}
	dir := c.cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured spec store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.cfg.Store.Backend == "mongo" {
		return store.NewMongoStore(ctx, c.cfg.Store.MongoURI, c.cfg.Store.MongoDatabase)
	}
	return store.NewFileStore(c.cfg.Store.Dir)
}

// newTextClient builds the generation client, or nil when no API key is
// configured (placeholder text applies).
func (c *CLI) newTextClient() textfill.Client {
	key := c.cfg.TextAPIKey()
	if key == "" {
		return nil
	}
	return textfill.NewHTTPClient(c.cfg.Text.Endpoint, c.cfg.Text.Model, key)
}

// ====== Paths ======

// cacheDir returns the cache directory using XDG standard (~/.cache/studio/).
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
