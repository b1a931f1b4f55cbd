// =============================================================================
// eFactura Client - Configuration Module
// =============================================================================
//
// Loads the client configuration once at startup and hands it to the
// commands. Three layers, later ones win:
//   1. Built-in defaults (local development gateway)
//   2. Optional YAML file (efactura.yaml, or --config)
//   3. Environment variables (a .env file is honored when present)
//
// ENVIRONMENT:
//   EFACTURA_API_URL      - gateway base URL
//   EFACTURA_DOWNLOAD_DIR - where PDF artifacts are saved
//   EFACTURA_ARCHIVE_DIR  - where migrated source PDFs are moved
//   EFACTURA_HTTP_TIMEOUT - request timeout in seconds, 0 waits forever
//
// =============================================================================

package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the local development gateway.
const DefaultBaseURL = "http://localhost:5000"

// DefaultConfigFile is the file Load looks for when no --config is given.
const DefaultConfigFile = "efactura.yaml"

// Config holds all client settings.
type Config struct {
	// BaseURL is the gateway address, without trailing slash.
	BaseURL string `yaml:"base_url"`

	// DownloadDir is where PDF artifacts are saved.
	DownloadDir string `yaml:"download_dir"`

	// ArchiveDir is where source PDFs are moved after migration.
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveOnSuccess enables archival of migrated source files.
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// TimeoutSeconds bounds each gateway request. Zero means no timeout:
	// a request waits indefinitely for completion or failure.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment. A missing file is only an error when the path was given
// explicitly.
func Load(path string) (*Config, error) {
	// A .env file is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:          DefaultBaseURL,
		DownloadDir:      ".",
		ArchiveDir:       "./facturas_migradas",
		ArchiveOnSuccess: true,
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; defaults plus environment apply.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides settings from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("EFACTURA_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EFACTURA_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("EFACTURA_ARCHIVE_DIR"); v != "" {
		cfg.ArchiveDir = v
	}
	if v := os.Getenv("EFACTURA_HTTP_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			cfg.TimeoutSeconds = secs
		}
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base URL %q is not a valid http(s) address", cfg.BaseURL)
	}
	return nil
}

// HTTPClient returns the http.Client gateway calls should go through. With
// no configured timeout the client waits indefinitely, matching the
// observed behavior of the original frontend.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: time.Duration(c.TimeoutSeconds) * time.Second}
}
