package config

const (
	defaultLibraryRoot    = "~/sets"
	defaultTransport      = "local"
	defaultTempDir        = "~/.cache/tracktidy/temp"
	defaultDataDir        = "~/.local/share/tracktidy/data"
	defaultCloneDir       = "~/.local/share/tracktidy/metadata-repo"
	defaultLLMBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel       = "google/gemini-3-flash-preview"
	defaultLLMTimeoutSecs = 60
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Library: Library{
			Root:      defaultLibraryRoot,
			Transport: defaultTransport,
			TempDir:   defaultTempDir,
			DataDir:   defaultDataDir,
		},
		Sync: Sync{
			CloneDir: defaultCloneDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSecs,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Confirm: Confirm{
			Enabled: true,
		},
	}
}
