package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Upstream API configuration
	API APIConfig `toml:"api"`

	// Games to collect
	Games GamesConfig `toml:"games"`

	// Player name resolution settings
	Players PlayersConfig `toml:"players"`

	// Output file settings
	Output OutputConfig `toml:"output"`
}

// APIConfig contains upstream API settings.
type APIConfig struct {
	BaseURL         string `toml:"base_url"`          // speedrun.com API base URL
	RequestTimeout  string `toml:"request_timeout"`   // Per-request timeout (e.g., "30s")
	PageDelay       string `toml:"page_delay"`        // Pacing between page/leaderboard fetches
	UserLookupDelay string `toml:"user_lookup_delay"` // Pacing between user lookups
	GameDelay       string `toml:"game_delay"`        // Pacing between games
}

// GamesConfig lists the games to process, in order.
type GamesConfig struct {
	IDs []string `toml:"ids"` // speedrun.com game ids
}

// PlayersConfig contains the guest-name detection policy.
type PlayersConfig struct {
	GuestMarkerChars string `toml:"guest_marker_chars"` // Chars that mark a registered-account id
	GuestMaxLen      int    `toml:"guest_max_len"`      // Ids at or above this length are never guests
}

// OutputConfig contains output file paths.
type OutputConfig struct {
	CSVPath   string `toml:"csv_path"`   // Flat run records
	ChartPath string `toml:"chart_path"` // Run-volume summary chart
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         "https://www.speedrun.com/api/v1",
			RequestTimeout:  "30s",
			PageDelay:       "500ms",
			UserLookupDelay: "100ms",
			GameDelay:       "1500ms",
		},
		Games: GamesConfig{
			IDs: []string{
				"j1npme6p", // Minecraft: Java Edition
				"3698my8d", // Roblox: DOORS
				"76rkv4d8", // Celeste
				"y65r7g81", // Portal
				"9d3rrxyd", // Hollow Knight
				"76r55vd8", // Super Mario Odyssey
				"pd0wq31e", // Super Mario 64
				"w6jmm26j", // Cuphead
				"n4d7jzd7", // Skyrim
				"nd28z0ed", // Elden Ring
				"369p3p81", // ULTRAKILL
				"4pd0n31e", // Portal
				"pd0wx9w1", // Getting Over It With Bennett Foddy
				"76rqmld8", // Hollow Knight
				"76rqjqd8", // The Legend of Zelda: Breath of the Wild
				"3698my8d", // Roblox: DOORS
				"76r43l18", // Outlast
				"w6j7vpx6", // Poppy Playtime: Chapter 1
				"m1zjmz60", // Resident Evil 2
				"o1y9okr6", // Hades
				"3dxy5vv6", // Hades 2
				"o6gnpox1", // Pizza Tower
			},
		},
		Players: PlayersConfig{
			GuestMarkerChars: "xj",
			GuestMaxLen:      8,
		},
		Output: OutputConfig{
			CSVPath:   "speedrun_data_names.csv",
			ChartPath: "speedrun_summary.html",
		},
	}
}

// Load loads the configuration from the given path. Returns the default
// config if path is empty or the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base URL cannot be empty")
	}

	durations := map[string]string{
		"request timeout":   c.API.RequestTimeout,
		"page delay":        c.API.PageDelay,
		"user lookup delay": c.API.UserLookupDelay,
		"game delay":        c.API.GameDelay,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}

	if len(c.Games.IDs) == 0 {
		return fmt.Errorf("no game ids configured")
	}

	if c.Players.GuestMaxLen < 0 {
		return fmt.Errorf("guest max length cannot be negative: %d", c.Players.GuestMaxLen)
	}

	if c.Output.CSVPath == "" {
		return fmt.Errorf("csv output path cannot be empty")
	}

	return nil
}

// GetRequestTimeout returns the per-request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.RequestTimeout)
}

// GetPageDelay returns the page pacing delay as a duration.
func (c *Config) GetPageDelay() (time.Duration, error) {
	return time.ParseDuration(c.API.PageDelay)
}

// GetUserLookupDelay returns the user lookup pacing delay as a duration.
func (c *Config) GetUserLookupDelay() (time.Duration, error) {
	return time.ParseDuration(c.API.UserLookupDelay)
}

// GetGameDelay returns the inter-game pacing delay as a duration.
func (c *Config) GetGameDelay() (time.Duration, error) {
	return time.ParseDuration(c.API.GameDelay)
}
