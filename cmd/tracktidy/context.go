package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tracktidy/internal/config"
	"tracktidy/internal/transport"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		// credentials may live in a .env next to the invocation
		_ = godotenv.Load()

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// targetConfigPath resolves where configuration edits should be written,
// without requiring a loadable config.
func (c *commandContext) targetConfigPath() (string, error) {
	if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
		return config.ExpandPath(strings.TrimSpace(*c.configFlag))
	}
	return config.DefaultConfigPath()
}

func (c *commandContext) buildTransport() (transport.Transport, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	switch cfg.Library.Transport {
	case "webdav":
		return transport.NewWebDAV(cfg.WebDAV.URL, cfg.WebDAV.Username, cfg.WebDAV.Password, cfg.Library.TempDir), nil
	case "local":
		return transport.NewLocal(), nil
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Library.Transport)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
