package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400/"
token = "abc123"

[dtdd]
api_key = "secret"
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatalf("expected config file to be reported as existing")
	}
	if cfg.Plex.URL != "http://plex.local:32400" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Plex.URL)
	}
	if cfg.DTDD.CacheTTLSeconds != 604800 {
		t.Fatalf("unexpected cache ttl default: %d", cfg.DTDD.CacheTTLSeconds)
	}
	if cfg.DTDD.APIDelaySeconds != 1.0 {
		t.Fatalf("unexpected api delay default: %v", cfg.DTDD.APIDelaySeconds)
	}
	if cfg.Warnings.MinYesVotes != 3 || cfg.Warnings.MinYesRatio != 0.6 {
		t.Fatalf("unexpected threshold defaults: %+v", cfg.Warnings)
	}
	if cfg.Warnings.IncludeSafeTopics {
		t.Fatalf("include_safe_topics should default to false")
	}
	if cfg.Warnings.Separator != DefaultSeparator {
		t.Fatalf("unexpected separator default: %q", cfg.Warnings.Separator)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("DTDD_API_KEY", "")
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "abc123"
`)

	_, _, _, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for missing dtdd.api_key")
	}
	if !strings.Contains(err.Error(), "dtdd.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("DTDD_API_KEY", "env-key")
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "abc123"
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DTDD.APIKey != "env-key" {
		t.Fatalf("expected api key from environment, got %q", cfg.DTDD.APIKey)
	}
}

func TestLoadRejectsBadRatio(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "abc123"

[dtdd]
api_key = "secret"

[warnings]
min_yes_ratio = 1.5
`)

	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "min_yes_ratio") {
		t.Fatalf("expected min_yes_ratio validation error, got %v", err)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "abc123"

[dtdd]
api_key = "secret"

[logging]
format = "xml"
`)

	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format validation error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "config.toml")
	if err := CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[dtdd]") {
		t.Fatalf("sample config missing [dtdd] section")
	}
}
