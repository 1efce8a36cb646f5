// Package config loads placer settings from TOML or YAML.
//
// Config file locations (priority order):
//  1. $PLACER_CONFIG
//  2. ./placer.toml
//  3. $XDG_CONFIG_HOME/placer/config.toml
//  4. ~/.config/placer/config.toml
//
// A missing file means defaults. Files ending in .yaml or .yml are decoded
// as YAML, everything else as TOML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/layout"
)

// Config is the full settings tree.
type Config struct {
	Editor  Editor  `toml:"editor" yaml:"editor"`
	Solvers Solvers `toml:"solvers" yaml:"solvers"`
	Cache   Cache   `toml:"cache" yaml:"cache"`
	Store   Store   `toml:"store" yaml:"store"`
	Server  Server  `toml:"server" yaml:"server"`
}

// Editor holds the canvas size and the placement defaults of new documents.
type Editor struct {
	CanvasWidth  int `toml:"canvas_width" yaml:"canvas_width"`
	CanvasHeight int `toml:"canvas_height" yaml:"canvas_height"`

	layout.Defaults `yaml:",inline"`
}

// Solvers configures external solver executables.
type Solvers struct {
	// Exec lists solver executables registered next to the built-ins.
	Exec []string `toml:"exec" yaml:"exec"`

	// Dir is scanned for further executables; relative entries of Exec are
	// resolved against it.
	Dir string `toml:"dir" yaml:"dir"`

	// Timeout bounds one call of an external solver. Zero means none.
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

// Cache selects the parameter and render cache.
type Cache struct {
	Backend string   `toml:"backend" yaml:"backend"` // file, redis or none
	Dir     string   `toml:"dir" yaml:"dir"`
	Redis   string   `toml:"redis" yaml:"redis"`
	TTL     Duration `toml:"ttl" yaml:"ttl"`
}

// Store selects the document store.
type Store struct {
	Backend string `toml:"backend" yaml:"backend"` // sqlite, mongo or file
	DSN     string `toml:"dsn" yaml:"dsn"`
}

// Server configures placer serve.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the stock configuration. Cache and store paths are left
// empty; [Config.ApplyDefaults] resolves them to XDG directories.
func Default() *Config {
	return &Config{
		Editor: Editor{
			CanvasWidth:  layout.DefaultCanvasWidth,
			CanvasHeight: layout.DefaultCanvasHeight,
			Defaults:     layout.DefaultDefaults(),
		},
		Solvers: Solvers{Timeout: Duration(time.Minute)},
		Cache:   Cache{Backend: "file", TTL: Duration(30 * 24 * time.Hour)},
		Store:   Store{Backend: "sqlite"},
		Server:  Server{Addr: "127.0.0.1:8720"},
	}
}

// Load finds and loads the config file, or returns defaults if none is
// found. The second result is the path that was read.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := Default()
		cfg.ApplyDefaults()
		return cfg, "", nil
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath loads the file at path over the defaults and validates it.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s: %v", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path in the format its extension selects.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	} else if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ApplyDefaults fills empty fields. Zero editor sizes take the stock
// values; an empty cache directory or SQLite DSN points into the XDG
// cache and data directories.
func (c *Config) ApplyDefaults() {
	stock := Default()
	if c.Editor.CanvasWidth == 0 {
		c.Editor.CanvasWidth = stock.Editor.CanvasWidth
	}
	if c.Editor.CanvasHeight == 0 {
		c.Editor.CanvasHeight = stock.Editor.CanvasHeight
	}
	d := layout.New(layout.WithDefaults(c.Editor.Defaults)).Defaults()
	c.Editor.Defaults = d

	if c.Cache.Backend == "" {
		c.Cache.Backend = stock.Cache.Backend
	}
	if c.Cache.Dir == "" && c.Cache.Backend == "file" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = stock.Store.Backend
	}
	if c.Store.DSN == "" {
		if dir, err := DataDir(); err == nil {
			switch c.Store.Backend {
			case "sqlite":
				c.Store.DSN = filepath.Join(dir, "placer.db")
			case "file":
				c.Store.DSN = filepath.Join(dir, "documents")
			}
		}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = stock.Server.Addr
	}
	if c.Solvers.Dir != "" {
		for i, p := range c.Solvers.Exec {
			if !filepath.IsAbs(p) && !strings.ContainsRune(p, filepath.Separator) {
				c.Solvers.Exec[i] = filepath.Join(c.Solvers.Dir, p)
			}
		}
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var v errors.ValidationErrors
	e := c.Editor
	if e.CanvasWidth < 0 || e.CanvasHeight < 0 {
		v.Add("editor.canvas", "size %dx%d is negative", e.CanvasWidth, e.CanvasHeight)
	}
	for _, f := range []struct {
		name string
		val  int
	}{
		{"editor.device_hw", e.DeviceHW},
		{"editor.device_hh", e.DeviceHH},
		{"editor.pin_hw", e.PinHW},
		{"editor.pin_hh", e.PinHH},
		{"editor.device_grid", e.DeviceGrid},
		{"editor.pin_grid", e.PinGrid},
	} {
		if f.val <= 0 {
			v.Add(f.name, "must be positive, got %d", f.val)
		}
	}
	if _, err := layout.ParseMode(string(e.Mode)); err != nil {
		v.Add("editor.mode", "%s", errors.UserMessage(err))
	}
	if c.Solvers.Timeout < 0 {
		v.Add("solvers.timeout", "must not be negative")
	}
	switch c.Cache.Backend {
	case "file", "none":
	case "redis":
		if c.Cache.Redis == "" {
			v.Add("cache.redis", "address required for the redis backend")
		}
	default:
		v.Add("cache.backend", "unknown backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "sqlite", "file":
	case "mongo":
		if c.Store.DSN == "" {
			v.Add("store.dsn", "connection URI required for the mongo backend")
		}
	default:
		v.Add("store.backend", "unknown backend %q (must be sqlite, mongo or file)", c.Store.Backend)
	}
	return v.Err()
}

// LayoutOptions returns the document options the editor section describes.
func (c *Config) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithCanvas(c.Editor.CanvasWidth, c.Editor.CanvasHeight),
		layout.WithDefaults(c.Editor.Defaults),
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
