package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	if err := c.normalizeSync(); err != nil {
		return err
	}
	c.normalizeWebDAV()
	c.normalizeLLM()
	return c.normalizeLogging()
}

func (c *Config) normalizeLibrary() error {
	var err error
	c.Library.Transport = strings.ToLower(strings.TrimSpace(c.Library.Transport))
	if c.Library.Transport == "" {
		c.Library.Transport = defaultTransport
	}
	// Remote roots are paths on the WebDAV server, never local paths.
	if c.Library.Transport == "local" {
		if c.Library.Root, err = expandPath(c.Library.Root); err != nil {
			return fmt.Errorf("library.root: %w", err)
		}
	} else {
		c.Library.Root = strings.Trim(strings.TrimSpace(c.Library.Root), "/")
	}
	if strings.TrimSpace(c.Library.TempDir) == "" {
		c.Library.TempDir = defaultTempDir
	}
	if c.Library.TempDir, err = expandPath(c.Library.TempDir); err != nil {
		return fmt.Errorf("library.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Library.DataDir) == "" {
		c.Library.DataDir = defaultDataDir
	}
	if c.Library.DataDir, err = expandPath(c.Library.DataDir); err != nil {
		return fmt.Errorf("library.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSync() error {
	var err error
	c.Sync.RemoteURL = strings.TrimSpace(c.Sync.RemoteURL)
	if strings.TrimSpace(c.Sync.CloneDir) == "" {
		c.Sync.CloneDir = defaultCloneDir
	}
	if c.Sync.CloneDir, err = expandPath(c.Sync.CloneDir); err != nil {
		return fmt.Errorf("sync.clone_dir: %w", err)
	}
	return nil
}

// normalizeWebDAV fills credentials from the environment when the file
// leaves them empty, matching what WebDAV hosting providers hand out.
func (c *Config) normalizeWebDAV() {
	c.WebDAV.URL = strings.TrimSpace(c.WebDAV.URL)
	c.WebDAV.Username = strings.TrimSpace(c.WebDAV.Username)
	c.WebDAV.Password = strings.TrimSpace(c.WebDAV.Password)
	if c.WebDAV.Username == "" {
		c.WebDAV.Username = strings.TrimSpace(os.Getenv("WEBDAV_USERNAME"))
	}
	if c.WebDAV.Password == "" {
		c.WebDAV.Password = strings.TrimSpace(os.Getenv("WEBDAV_PASSWORD"))
	}
}

func (c *Config) normalizeLLM() {
	if key := strings.TrimSpace(os.Getenv("TRACKTIDY_LLM_API_KEY")); key != "" && strings.TrimSpace(c.LLM.APIKey) == "" {
		c.LLM.APIKey = key
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSecs
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		return nil
	}
	expanded, err := expandPath(c.Logging.Dir)
	if err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	c.Logging.Dir = expanded
	return nil
}
