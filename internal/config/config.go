package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Search providers
	Search SearchConfig `json:"search"`

	// LLM-grounded search providers
	LLM LLMConfig `json:"llm"`

	// Platform toggles and platform-specific settings
	Platforms PlatformConfig `json:"platforms"`

	// Query cache settings
	Cache CacheConfig `json:"cache"`

	// Exclusion settings
	Exclusions ExclusionConfig `json:"exclusions"`
}

// SearchConfig holds search engine provider settings
type SearchConfig struct {
	Bing   BingSettings   `json:"bing"`
	Google GoogleSettings `json:"google"`
}

// BingSettings for the Bing Web Search v7 API
type BingSettings struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"api_key,omitempty"`
}

// GoogleSettings for the Google Custom Search JSON API
type GoogleSettings struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key,omitempty"`
	EngineID string `json:"engine_id,omitempty"` // Programmable Search Engine cx
}

// LLMConfig holds LLM provider settings
type LLMConfig struct {
	Gemini LLMSettings `json:"gemini"`
	OpenAI LLMSettings `json:"openai"`
}

// LLMSettings for a single LLM provider
type LLMSettings struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"api_key,omitempty"`
	Model   string `json:"model,omitempty"`
}

// PlatformConfig holds per-platform toggles and credentials
type PlatformConfig struct {
	// Enabled maps platform name to on/off. Missing entries default to on.
	Enabled map[string]bool `json:"enabled,omitempty"`

	// GitHubToken raises the GitHub search API rate limit. Optional.
	GitHubToken string `json:"github_token,omitempty"`

	// StackAppsKey raises the Stack Exchange API quota. Optional.
	StackAppsKey string `json:"stackapps_key,omitempty"`

	// DiscourseForums lists forum hosts searched by the discourse platform.
	DiscourseForums []string `json:"discourse_forums,omitempty"`
}

// CacheConfig holds query cache settings
type CacheConfig struct {
	TTLHours   int    `json:"ttl_hours"`
	MaxEntries int    `json:"max_entries"`
	Persistent bool   `json:"persistent"`
	Path       string `json:"path,omitempty"` // SQLite file, defaults under config dir
}

// ExclusionConfig holds exclusion filter settings
type ExclusionConfig struct {
	// BrandTerms are disallowed brand mentions. An item whose content
	// already mentions one of these is dropped.
	BrandTerms []string `json:"brand_terms,omitempty"`
}

// DefaultDiscourseForums are community forums searched when the discourse
// platform has no explicit forum list configured.
var DefaultDiscourseForums = []string{
	"meta.discourse.org",
	"community.openai.com",
	"discuss.python.org",
	"forum.golangbridge.org",
	"community.home-assistant.io",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Bing:   BingSettings{Enabled: true},
			Google: GoogleSettings{Enabled: true},
		},
		LLM: LLMConfig{
			Gemini: LLMSettings{Enabled: true, Model: "gemini-2.5-flash"},
			OpenAI: LLMSettings{Enabled: false, Model: "gpt-4o-search-preview"},
		},
		Platforms: PlatformConfig{
			Enabled:         map[string]bool{},
			DiscourseForums: DefaultDiscourseForums,
		},
		Cache: CacheConfig{
			TTLHours:   24,
			MaxEntries: 200,
			Persistent: false,
		},
		Exclusions: ExclusionConfig{},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".threadscout", "config.json")
}

// CachePath returns the path for the persistent cache database.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".threadscout", "cache.db")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	if cfg.Platforms.Enabled == nil {
		cfg.Platforms.Enabled = map[string]bool{}
	}
	if len(cfg.Platforms.DiscourseForums) == 0 {
		cfg.Platforms.DiscourseForums = DefaultDiscourseForums
	}
	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("BING_SEARCH_KEY"); key != "" && c.Search.Bing.APIKey == "" {
		c.Search.Bing.APIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.Search.Google.APIKey == "" {
		c.Search.Google.APIKey = key
	}
	if cx := os.Getenv("GOOGLE_CSE_ID"); cx != "" && c.Search.Google.EngineID == "" {
		c.Search.Google.EngineID = cx
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.LLM.Gemini.APIKey == "" {
		c.LLM.Gemini.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.OpenAI.APIKey == "" {
		c.LLM.OpenAI.APIKey = key
	}
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" && c.Platforms.GitHubToken == "" {
		c.Platforms.GitHubToken = tok
	}
	if key := os.Getenv("STACKAPPS_KEY"); key != "" && c.Platforms.StackAppsKey == "" {
		c.Platforms.StackAppsKey = key
	}
}

// PlatformEnabled reports whether a platform is switched on. Platforms are
// on by default; only an explicit false disables one.
func (c *Config) PlatformEnabled(name string) bool {
	if v, ok := c.Platforms.Enabled[name]; ok {
		return v
	}
	return true
}
