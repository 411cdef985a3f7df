// Package testsupport provides fixture builders shared across package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"tracktidy/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Library.Root = filepath.Join(base, "library")
	cfg.Library.TempDir = filepath.Join(base, "tmp")
	cfg.Library.DataDir = filepath.Join(base, "data")
	cfg.Sync.CloneDir = filepath.Join(base, "clone")
	cfg.Logging.Dir = filepath.Join(base, "logs")
	cfg.LLM.APIKey = "test"
	cfg.Confirm.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithSyncRemote points the config at a replicated metadata remote.
func WithSyncRemote(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.RemoteURL = url
	}
}

// WithWebDAV switches the library onto a WebDAV transport.
func WithWebDAV(url, username, password string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Library.Transport = "webdav"
		cfg.WebDAV.URL = url
		cfg.WebDAV.Username = username
		cfg.WebDAV.Password = password
	}
}
