// Package projectconfig provides the ProjectConfig struct and loader for
// .boxpick.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultServerPort = 3000

	DefaultDBPath      = "boxpick.db"
	DefaultCatalogPath = "catalog.yaml"

	DefaultStoreID      = "1"
	DefaultPackingLevel = "Standard"
)

// ServerConfig holds web server settings.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// StoreConfig holds the config database location and the default store.
type StoreConfig struct {
	DB      string `yaml:"db,omitempty"`
	StoreID string `yaml:"store_id,omitempty"`
}

// DefaultsConfig holds default recommendation parameters for the CLI.
type DefaultsConfig struct {
	Catalog      string `yaml:"catalog,omitempty"`
	PackingLevel string `yaml:"packing_level,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .boxpick.yaml.
type ProjectConfig struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Store    StoreConfig    `yaml:"store,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
		Store: StoreConfig{
			DB:      DefaultDBPath,
			StoreID: DefaultStoreID,
		},
		Defaults: DefaultsConfig{
			Catalog:      DefaultCatalogPath,
			PackingLevel: DefaultPackingLevel,
		},
	}
}

// Load finds .boxpick.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .boxpick.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .boxpick.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .boxpick.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".boxpick.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.AllowedOrigins != nil {
		dst.Server.AllowedOrigins = src.Server.AllowedOrigins
	}

	if src.Store.DB != "" {
		dst.Store.DB = src.Store.DB
	}
	if src.Store.StoreID != "" {
		dst.Store.StoreID = src.Store.StoreID
	}

	if src.Defaults.Catalog != "" {
		dst.Defaults.Catalog = src.Defaults.Catalog
	}
	if src.Defaults.PackingLevel != "" {
		dst.Defaults.PackingLevel = src.Defaults.PackingLevel
	}
}
