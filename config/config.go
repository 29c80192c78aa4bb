// Package config loads and validates the service configuration from a
// YAML file. Configuration is read once at startup; the service does not
// hot-reload.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// ErrPathIsDirectory is returned when the config path points to a
// directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// ErrEmptyMappingDir is returned when no mapping documents directory is
// configured.
var ErrEmptyMappingDir = errors.New("mapping documents dir must not be empty")

// ErrEmptyStoreURL is returned when no record store base URL is
// configured.
var ErrEmptyStoreURL = errors.New("record store base url must not be empty")

// DefaultAddress is the default HTTP listen address.
const DefaultAddress = ":8080"

// Config is the full service configuration.
type Config struct {
	LogLevel string `yaml:"logLevel"`

	// Address is the HTTP listen address.
	Address string `yaml:"address"`

	// MappingDir is the directory of tenant mapping documents.
	MappingDir string `yaml:"mappingDir"`

	RecordStore StoreConfig    `yaml:"recordStore"`
	Renderer    RendererConfig `yaml:"renderer"`
	Reduced     ReducedConfig  `yaml:"reduced"`

	// LinkBaseURL is the base for outbound deep links into the record
	// store UI. Empty disables link decoration.
	LinkBaseURL string `yaml:"linkBaseUrl"`
}

// StoreConfig configures the record store client.
type StoreConfig struct {
	BaseURL  string        `yaml:"baseUrl"`
	Token    string        `yaml:"token"`
	CacheTTL time.Duration `yaml:"cacheTtl"`
}

// RendererConfig configures the headless-browser PDF renderer.
type RendererConfig struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty launches a local browser.
	RemoteURL string `yaml:"remoteUrl"`

	// Disabled turns PDF output off; HTML output still works.
	Disabled bool `yaml:"disabled"`
}

// ReducedConfig is the reduced-mode filtering policy.
type ReducedConfig struct {
	DeniedPaths     []string `yaml:"deniedPaths"`
	EssentialLabels []string `yaml:"essentialLabels"`
}

// SetDefaults fills absent values and reports whether anything changed.
func (c *Config) SetDefaults() bool {
	changed := false

	if c.Address == "" {
		c.Address = DefaultAddress
		changed = true
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
		changed = true
	}

	if len(c.Reduced.DeniedPaths) == 0 {
		c.Reduced.DeniedPaths = defaultDeniedPaths()
		changed = true
	}

	if len(c.Reduced.EssentialLabels) == 0 {
		c.Reduced.EssentialLabels = defaultEssentialLabels()
		changed = true
	}

	return changed
}

// Validate checks the configuration for the settings the service cannot
// run without.
func (c *Config) Validate() error {
	if c.MappingDir == "" {
		return ErrEmptyMappingDir
	}

	if c.RecordStore.BaseURL == "" {
		return ErrEmptyStoreURL
	}

	return nil
}

// Load reads, parses, defaults, and validates the configuration file at
// the given path.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", cleanPath, err)
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", cleanPath, err)
	}

	changed := cfg.SetDefaults()
	if changed {
		slog.Info("config: defaults applied", "path", cleanPath)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config %q: %w", cleanPath, err)
	}

	return &cfg, nil
}

// defaultDeniedPaths lists source paths never shown in reduced mode:
// internal identifiers and ownership/system fields.
func defaultDeniedPaths() []string {
	return []string{
		"id",
		"tenantId",
		"ownerId",
		"createdById",
		"lastModifiedById",
		"systemModstamp",
	}
}

// defaultEssentialLabels lists the labels reduced mode keeps.
func defaultEssentialLabels() []string {
	return []string{
		"First Name",
		"Last Name",
		"Date of Birth",
		"Email",
		"Phone",
		"Program",
		"Status",
		"Start Date",
	}
}
