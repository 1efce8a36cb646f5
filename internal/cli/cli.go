// Package cli implements the placer command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/placerlab/placer/pkg/buildinfo"
	"github.com/placerlab/placer/pkg/cache"
	"github.com/placerlab/placer/pkg/config"
	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/observability"
	"github.com/placerlab/placer/pkg/session"
	"github.com/placerlab/placer/pkg/solver"
	"github.com/placerlab/placer/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "placer"

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

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	configPath string
	noCache    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level. At debug level solver, render
// and cache events are logged through the observability hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLoggingHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Placer edits and solves device placement layouts",
		Long:         `Placer reads, writes, renders and optimizes placement layouts: devices, the pins they own, and the nets connecting those pins.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $PLACER_CONFIG, ./placer.toml, ~/.config/placer/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the parameter and render cache")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.alignCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.solversCommand())
	root.AddCommand(c.paramsCommand())
	root.AddCommand(c.estimateCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.genCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if c.configPath != "" {
		path = c.configPath
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("config loaded", "path", path)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Component Factories
// =============================================================================

// newRegistry returns the built-in solvers plus the external executables
// listed in the config. An executable that fails to start is skipped with
// a warning.
func (c *CLI) newRegistry(ctx context.Context) (*solver.Registry, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	reg := solver.Builtin()
	for _, path := range solverPaths(cfg.Solvers) {
		ex, err := solver.NewExec(ctx, path, cfg.Solvers.Timeout.Duration())
		if err != nil {
			c.Logger.Warn("skipping solver", "path", path, "error", errors.UserMessage(err))
			continue
		}
		if err := reg.Register(ex); err != nil {
			c.Logger.Warn("skipping solver", "path", path, "error", errors.UserMessage(err))
		}
	}
	return reg, nil
}

// solverPaths lists the configured executables followed by the executable
// files of the solver directory.
func solverPaths(cfg config.Solvers) []string {
	paths := append([]string(nil), cfg.Exec...)
	if cfg.Dir == "" {
		return paths
	}
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return paths
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || e.IsDir() || info.Mode()&0111 == 0 || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p := filepath.Join(cfg.Dir, e.Name())
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// newCache opens the configured cache, wrapped to report to the cache hooks.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.Redis)
		if err != nil {
			return nil, err
		}
		return cache.Observed(rc), nil
	case "none":
		return cache.NewNullCache(), nil
	default:
		if cfg.Cache.Dir == "" {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		return cache.Observed(fc), nil
	}
}

// newWorkspace builds a workspace over the configured solvers and cache.
// The returned cleanup closes the cache.
func (c *CLI) newWorkspace(ctx context.Context) (*session.Workspace, func(), error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	reg, err := c.newRegistry(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	bridge := solver.NewBridge(reg, c.Logger)
	bridge.Options = cfg.LayoutOptions()
	ws := session.New(bridge,
		session.WithCache(ch),
		session.WithLogger(c.Logger),
		session.WithTTL(cfg.Cache.TTL.Duration()),
		session.WithDocumentOptions(cfg.LayoutOptions()...),
	)
	return ws, func() { ch.Close() }, nil
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Store.Backend == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DSN), 0755); err != nil {
			return nil, err
		}
	}
	return store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN)
}

// =============================================================================
// Hooks
// =============================================================================

// registerLoggingHooks routes observability events to the logger.
func registerLoggingHooks(l *log.Logger) {
	observability.SetSolverHooks(&logHooks{l})
	observability.SetRenderHooks(&logHooks{l})
	observability.SetCacheHooks(&logHooks{l})
}
