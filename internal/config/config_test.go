package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidatesWithAPIKey(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "test"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !filepath.IsAbs(cfg.Library.TempDir) {
		t.Fatalf("temp dir not expanded: %q", cfg.Library.TempDir)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestNormalizeReadsAPIKeyFromEnv(t *testing.T) {
	t.Setenv("TRACKTIDY_LLM_API_KEY", "from-env")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.LLM.APIKey != "from-env" {
		t.Fatalf("expected env key, got %q", cfg.LLM.APIKey)
	}
}

func TestNormalizeReadsWebDAVCredentialsFromEnv(t *testing.T) {
	t.Setenv("WEBDAV_USERNAME", "dav-user")
	t.Setenv("WEBDAV_PASSWORD", "dav-pass")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.WebDAV.Username != "dav-user" || cfg.WebDAV.Password != "dav-pass" {
		t.Fatalf("expected env credentials, got %q / %q", cfg.WebDAV.Username, cfg.WebDAV.Password)
	}

	// explicit file values win over the environment
	cfg = Default()
	cfg.WebDAV.Username = "file-user"
	cfg.WebDAV.Password = "file-pass"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.WebDAV.Username != "file-user" || cfg.WebDAV.Password != "file-pass" {
		t.Fatalf("file credentials overridden: %q / %q", cfg.WebDAV.Username, cfg.WebDAV.Password)
	}
}

func TestNormalizeTrimsRemoteRoot(t *testing.T) {
	cfg := Default()
	cfg.Library.Transport = "WebDAV"
	cfg.Library.Root = "/sets/live/"
	cfg.WebDAV.URL = "http://example.test/dav"
	cfg.LLM.APIKey = "test"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Library.Root != "sets/live" {
		t.Fatalf("remote root not trimmed: %q", cfg.Library.Root)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsUnknownTransport(t *testing.T) {
	cfg := Default()
	cfg.Library.Transport = "ftp"
	cfg.LLM.APIKey = "test"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected transport validation error")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TRACKTIDY_LLM_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.LLM.Model == "" {
		t.Fatal("defaults not applied")
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[library]
root = "` + dir + `"
transport = "local"

[llm]
api_key = "abc"
model = "test/model"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if cfg.LLM.Model != "test/model" {
		t.Fatalf("unexpected model %q", cfg.LLM.Model)
	}
	if cfg.Library.Root != dir {
		t.Fatalf("unexpected root %q", cfg.Library.Root)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	t.Setenv("TRACKTIDY_LLM_API_KEY", "from-env")
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
