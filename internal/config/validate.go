package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateWebDAV(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLibrary() error {
	switch c.Library.Transport {
	case "local", "webdav":
	default:
		return fmt.Errorf("library.transport must be \"local\" or \"webdav\", got %q", c.Library.Transport)
	}
	if strings.TrimSpace(c.Library.Root) == "" {
		return errors.New("library.root must be set")
	}
	return nil
}

func (c *Config) validateWebDAV() error {
	if c.Library.Transport != "webdav" {
		return nil
	}
	if strings.TrimSpace(c.WebDAV.URL) == "" {
		return errors.New("webdav.url is required when library.transport is \"webdav\"")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tracktidy/config.toml"
		}
		return fmt.Errorf("llm.api_key is required. Set TRACKTIDY_LLM_API_KEY or edit %s (create with 'tracktidy config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
