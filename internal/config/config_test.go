package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no efactura.yaml here

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("base URL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.TimeoutSeconds != 0 {
		t.Errorf("timeout = %d, want 0 (wait indefinitely)", cfg.TimeoutSeconds)
	}
	if !cfg.ArchiveOnSuccess {
		t.Error("archival disabled by default")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "efactura.yaml")
	body := "base_url: https://factura.example.com\ndownload_dir: /tmp/descargas\ntimeout_seconds: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://factura.example.com" {
		t.Errorf("base URL = %q", cfg.BaseURL)
	}
	if cfg.DownloadDir != "/tmp/descargas" {
		t.Errorf("download dir = %q", cfg.DownloadDir)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d", cfg.TimeoutSeconds)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "efactura.yaml")
	if err := os.WriteFile(path, []byte("base_url: http://file.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EFACTURA_API_URL", "http://env.example.com")
	t.Setenv("EFACTURA_HTTP_TIMEOUT", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://env.example.com" {
		t.Errorf("base URL = %q, want env override", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("timeout = %d, want 5", cfg.TimeoutSeconds)
	}
}

func TestExplicitMissingFileIsAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "no-such.yaml")); err == nil {
		t.Fatal("missing explicit config accepted")
	}
}

func TestInvalidBaseURLRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EFACTURA_API_URL", "not a url")

	if _, err := Load(""); err == nil {
		t.Fatal("invalid base URL accepted")
	}
}

func TestHTTPClientTimeout(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 0}
	if c := cfg.HTTPClient(); c.Timeout != 0 {
		t.Errorf("timeout = %v, want 0", c.Timeout)
	}
	cfg.TimeoutSeconds = 7
	if c := cfg.HTTPClient(); c.Timeout.Seconds() != 7 {
		t.Errorf("timeout = %v, want 7s", c.Timeout)
	}
}
