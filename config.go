package promptlet

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"time"

	defaults "github.com/Paranoid-AF/promptlet/default"
)

// Config represents the user's promptlet configuration.
type Config struct {
	Version   int             `json:"version"`
	Server    ServerConfig    `json:"server"`
	Cache     CacheConfig     `json:"cache"`
	Catalogue CatalogueConfig `json:"catalogue"`
}

// ServerConfig holds settings for the prompt server connection.
type ServerConfig struct {
	URL              string `json:"url"`
	Origin           string `json:"origin"`
	ListMethod       string `json:"list_method"`
	ListTimeoutMs    int    `json:"list_timeout_ms,omitempty"`
	ExecuteTimeoutMs int    `json:"execute_timeout_ms,omitempty"`
}

// CacheConfig holds settings for the in-process catalogue cache.
type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds,omitempty"`
	// DescribeTTLSeconds bounds memoized prompt-file lookups. It outlives
	// TTLSeconds so catalogue refreshes reuse parsed files.
	DescribeTTLSeconds int `json:"describe_ttl_seconds,omitempty"`
}

// CatalogueConfig holds settings for building and filtering the catalogue.
type CatalogueConfig struct {
	PromptsDir     string   `json:"prompts_dir"`
	HeaderPrefixes []string `json:"header_prefixes,omitempty"`
	// Match is "substring" (default) or "fuzzy".
	Match string `json:"match,omitempty"`
}

// Match modes accepted in CatalogueConfig.Match.
const (
	MatchSubstring = "substring"
	MatchFuzzy     = "fuzzy"
)

// ListTimeout is the bound on a catalogue fetch.
func (c ServerConfig) ListTimeout() time.Duration {
	return time.Duration(c.ListTimeoutMs) * time.Millisecond
}

// ExecuteTimeout is the bound on a prompt execution.
func (c ServerConfig) ExecuteTimeout() time.Duration {
	return time.Duration(c.ExecuteTimeoutMs) * time.Millisecond
}

// TTL is the catalogue expiry.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DescribeTTL is the expiry of memoized prompt-file lookups.
func (c CacheConfig) DescribeTTL() time.Duration {
	return time.Duration(c.DescribeTTLSeconds) * time.Second
}

// ConfigDir returns the config directory path.
// Resolution order: $PROMPTLET_CONFIG_DIR > $XDG_CONFIG_HOME/promptlet > ~/.config/promptlet
func ConfigDir() string {
	if dir := os.Getenv("PROMPTLET_CONFIG_DIR"); dir != "" {
		return dir
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "promptlet")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "promptlet-config")
	}
	return filepath.Join(home, ".config", "promptlet")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// DefaultConfig returns the default configuration from the embedded default_config.json.
func DefaultConfig() *Config {
	var cfg Config
	if err := json.Unmarshal(defaults.DefaultConfigJSON, &cfg); err != nil {
		panic("promptlet: invalid embedded default_config.json: " + err.Error())
	}
	return &cfg
}

// LoadConfig loads config from disk or returns defaults if not found.
func LoadConfig() (*Config, error) {
	return LoadConfigFile(ConfigPath())
}

// LoadConfigFile loads config from path, filling missing fields with defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.Origin == "" {
		cfg.Server.Origin = defaults.Server.Origin
	}
	if cfg.Server.ListMethod == "" {
		cfg.Server.ListMethod = defaults.Server.ListMethod
	}
	if cfg.Server.ListTimeoutMs == 0 {
		cfg.Server.ListTimeoutMs = defaults.Server.ListTimeoutMs
	}
	if cfg.Server.ExecuteTimeoutMs == 0 {
		cfg.Server.ExecuteTimeoutMs = defaults.Server.ExecuteTimeoutMs
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = defaults.Cache.TTLSeconds
	}
	if cfg.Cache.DescribeTTLSeconds == 0 {
		cfg.Cache.DescribeTTLSeconds = defaults.Cache.DescribeTTLSeconds
	}
	if cfg.Catalogue.HeaderPrefixes == nil {
		cfg.Catalogue.HeaderPrefixes = defaults.Catalogue.HeaderPrefixes
	}
	if cfg.Catalogue.Match == "" {
		cfg.Catalogue.Match = defaults.Catalogue.Match
	}

	return &cfg, nil
}

// ValidateConfig checks configuration for potential issues and returns warnings.
func ValidateConfig(cfg *Config) []string {
	var warnings []string
	if cfg == nil {
		return warnings
	}
	if u, err := url.Parse(ResolveServerURL(cfg)); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		warnings = append(warnings, "server url should be a ws:// or wss:// address")
	}
	if cfg.Server.ListTimeoutMs < 0 || cfg.Server.ExecuteTimeoutMs < 0 {
		warnings = append(warnings, "negative timeouts fall back to the defaults")
	}
	switch cfg.Catalogue.Match {
	case "", MatchSubstring, MatchFuzzy:
	default:
		warnings = append(warnings, "unknown catalogue match mode "+cfg.Catalogue.Match+"; using substring")
	}
	if dir := ResolvePromptsDir(cfg); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			warnings = append(warnings, "prompts_dir "+dir+" is not a directory; descriptions fall back to built-in names")
		}
	}
	return warnings
}

// ResolveServerURL returns the prompt server WebSocket URL.
// Priority: $PROMPTLET_SERVER_URL env > config value.
func ResolveServerURL(cfg *Config) string {
	if u := os.Getenv("PROMPTLET_SERVER_URL"); u != "" {
		return u
	}
	if cfg != nil {
		return cfg.Server.URL
	}
	return ""
}

// ResolvePromptsDir returns the directory holding prompt definition files.
// Priority: $PROMPTLET_PROMPTS_DIR env > config value.
func ResolvePromptsDir(cfg *Config) string {
	if dir := os.Getenv("PROMPTLET_PROMPTS_DIR"); dir != "" {
		return dir
	}
	if cfg != nil {
		return cfg.Catalogue.PromptsDir
	}
	return ""
}
