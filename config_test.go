package promptlet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.URL != "ws://localhost:5050/ws" {
		t.Errorf("expected default url, got %s", cfg.Server.URL)
	}
	if cfg.Server.ListMethod != "get_prompt_names" {
		t.Errorf("expected get_prompt_names, got %s", cfg.Server.ListMethod)
	}
	if cfg.Server.ListTimeout() != 5*time.Second {
		t.Errorf("expected 5s list timeout, got %s", cfg.Server.ListTimeout())
	}
	if cfg.Server.ExecuteTimeout() != 10*time.Second {
		t.Errorf("expected 10s execute timeout, got %s", cfg.Server.ExecuteTimeout())
	}
	if cfg.Cache.TTL() != 300*time.Second {
		t.Errorf("expected 300s ttl, got %s", cfg.Cache.TTL())
	}
	if cfg.Cache.DescribeTTL() <= cfg.Cache.TTL() {
		t.Errorf("expected describe ttl to outlive the catalogue ttl, got %s", cfg.Cache.DescribeTTL())
	}
	if len(cfg.Catalogue.HeaderPrefixes) == 0 {
		t.Error("expected default header prefixes")
	}
}

func TestConfigDirFromEnv(t *testing.T) {
	t.Setenv("PROMPTLET_CONFIG_DIR", "/custom/promptlet")
	if got := ConfigDir(); got != "/custom/promptlet" {
		t.Errorf("expected /custom/promptlet, got %s", got)
	}
}

func TestConfigDirFromXDG(t *testing.T) {
	t.Setenv("PROMPTLET_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigDir(); got != "/xdg/promptlet" {
		t.Errorf("expected /xdg/promptlet, got %s", got)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PROMPTLET_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.URL != DefaultConfig().Server.URL {
		t.Errorf("expected default url, got %s", cfg.Server.URL)
	}
}

func TestLoadConfigFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"server":{"url":"ws://example:9000/ws"},"catalogue":{"match":"fuzzy"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.URL != "ws://example:9000/ws" {
		t.Errorf("expected custom url, got %s", cfg.Server.URL)
	}
	if cfg.Catalogue.Match != MatchFuzzy {
		t.Errorf("expected fuzzy, got %s", cfg.Catalogue.Match)
	}
	if cfg.Server.ListMethod != "get_prompt_names" {
		t.Errorf("expected default list method, got %s", cfg.Server.ListMethod)
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("expected default ttl, got %d", cfg.Cache.TTLSeconds)
	}
	if cfg.Cache.DescribeTTLSeconds != 3600 {
		t.Errorf("expected default describe ttl, got %d", cfg.Cache.DescribeTTLSeconds)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestResolveServerURLEnvOverride(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("PROMPTLET_SERVER_URL", "ws://override/ws")
	if got := ResolveServerURL(cfg); got != "ws://override/ws" {
		t.Errorf("expected env override, got %s", got)
	}
	t.Setenv("PROMPTLET_SERVER_URL", "")
	if got := ResolveServerURL(cfg); got != cfg.Server.URL {
		t.Errorf("expected config url, got %s", got)
	}
	if got := ResolveServerURL(nil); got != "" {
		t.Errorf("expected empty for nil config, got %s", got)
	}
}

func TestResolvePromptsDirEnvOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalogue.PromptsDir = "/from/config"
	t.Setenv("PROMPTLET_PROMPTS_DIR", "/from/env")
	if got := ResolvePromptsDir(cfg); got != "/from/env" {
		t.Errorf("expected /from/env, got %s", got)
	}
	t.Setenv("PROMPTLET_PROMPTS_DIR", "")
	if got := ResolvePromptsDir(cfg); got != "/from/config" {
		t.Errorf("expected /from/config, got %s", got)
	}
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("PROMPTLET_SERVER_URL", "")
	t.Setenv("PROMPTLET_PROMPTS_DIR", "")

	if warnings := ValidateConfig(DefaultConfig()); len(warnings) != 0 {
		t.Errorf("expected no warnings for defaults, got %v", warnings)
	}

	cfg := DefaultConfig()
	cfg.Server.URL = "http://localhost:5050"
	cfg.Catalogue.Match = "regex"
	cfg.Catalogue.PromptsDir = filepath.Join(t.TempDir(), "missing")
	warnings := ValidateConfig(cfg)
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "ws://") {
		t.Errorf("expected url warning first, got %s", warnings[0])
	}

	cfg = DefaultConfig()
	cfg.Server.ExecuteTimeoutMs = -1
	warnings = ValidateConfig(cfg)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "fall back to the defaults") {
		t.Errorf("expected negative timeout warning, got %v", warnings)
	}

	if warnings := ValidateConfig(nil); len(warnings) != 0 {
		t.Errorf("expected no warnings for nil config, got %v", warnings)
	}
}
