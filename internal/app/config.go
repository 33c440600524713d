package app

import "time"

// Defaults applied by ApplyDefaults for anything left unset by flags, env and
// the config file.
const (
	DefaultDataPath     = "scraped_data.json"
	DefaultLLMBaseURL   = "http://localhost:11434/v1"
	DefaultLLMModel     = "llama3.2:latest"
	DefaultLLMTimeout   = 2 * time.Minute
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "pagechat/1.0 (+https://github.com/hyperifyio/pagechat)"
)

// Config holds runtime configuration for the application.
type Config struct {
	// DataPath is the snapshot file. A .yaml/.yml extension selects YAML.
	DataPath string

	// LLM
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	LLMTimeout   time.Duration
	SystemPrompt string

	// Fetch
	FetchTimeout time.Duration
	UserAgent    string

	// Answer cache; disabled when CacheDir is empty
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}

// ApplyDefaults fills any zero-valued field with its default.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.DataPath == "" {
		cfg.DataPath = DefaultDataPath
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = DefaultLLMBaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = DefaultLLMModel
	}
	if cfg.LLMTimeout == 0 {
		cfg.LLMTimeout = DefaultLLMTimeout
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
}
