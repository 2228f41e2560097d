package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	if cfg.API.BaseURL != "https://www.speedrun.com/api/v1" {
		t.Errorf("unexpected base URL %q", cfg.API.BaseURL)
	}
	if len(cfg.Games.IDs) == 0 {
		t.Error("default config should list games")
	}
	if cfg.Players.GuestMarkerChars != "xj" || cfg.Players.GuestMaxLen != 8 {
		t.Errorf("unexpected guest policy: %+v", cfg.Players)
	}
	if cfg.Output.CSVPath != "speedrun_data_names.csv" {
		t.Errorf("unexpected csv path %q", cfg.Output.CSVPath)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != DefaultConfig().API.BaseURL {
		t.Error("expected defaults for missing file")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Games.IDs) == 0 {
		t.Error("expected default game list")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "http://localhost:9999/api/v1"
page_delay = "10ms"

[games]
ids = ["abc", "def"]

[players]
guest_max_len = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:9999/api/v1" {
		t.Errorf("base URL not overridden: %q", cfg.API.BaseURL)
	}
	if cfg.API.PageDelay != "10ms" {
		t.Errorf("page delay not overridden: %q", cfg.API.PageDelay)
	}
	if len(cfg.Games.IDs) != 2 || cfg.Games.IDs[0] != "abc" {
		t.Errorf("game ids not overridden: %v", cfg.Games.IDs)
	}
	if cfg.Players.GuestMaxLen != 5 {
		t.Errorf("guest max len not overridden: %d", cfg.Players.GuestMaxLen)
	}
	// Untouched values keep their defaults.
	if cfg.API.UserLookupDelay != "100ms" {
		t.Errorf("expected default user lookup delay, got %q", cfg.API.UserLookupDelay)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad duration", func(c *Config) { c.API.PageDelay = "soon" }},
		{"empty base URL", func(c *Config) { c.API.BaseURL = "" }},
		{"no games", func(c *Config) { c.Games.IDs = nil }},
		{"negative guest len", func(c *Config) { c.Players.GuestMaxLen = -1 }},
		{"empty csv path", func(c *Config) { c.Output.CSVPath = "" }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := DefaultConfig()

	pageDelay, err := cfg.GetPageDelay()
	if err != nil {
		t.Fatalf("GetPageDelay failed: %v", err)
	}
	if pageDelay.Milliseconds() != 500 {
		t.Errorf("expected 500ms, got %v", pageDelay)
	}

	gameDelay, err := cfg.GetGameDelay()
	if err != nil {
		t.Fatalf("GetGameDelay failed: %v", err)
	}
	if gameDelay.Milliseconds() != 1500 {
		t.Errorf("expected 1500ms, got %v", gameDelay)
	}
}
