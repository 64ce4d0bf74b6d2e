package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "lorekeeper.yaml"
	DefaultSavePath   = "saves/session.lks"
	DefaultStoreDSN   = "sqlite://./lorekeeper.db"
)

type ProjectConfig struct {
	Project string       `yaml:"project"`
	Version int          `yaml:"version"`
	Save    string       `yaml:"save" env:"LOREKEEPER_SAVE"`
	Store   StoreConfig  `yaml:"store"`
	Log     LogConfig    `yaml:"log"`
	Player  PlayerConfig `yaml:"player"`
	Rules   RulesConfig  `yaml:"rules"`
}

type StoreConfig struct {
	DSN string `yaml:"dsn" env:"LOREKEEPER_STORE_DSN"`
}

type LogConfig struct {
	Format string `yaml:"format" env:"LOREKEEPER_LOG_FORMAT"`
	Level  string `yaml:"level" env:"LOREKEEPER_LOG_LEVEL"`
}

// PlayerConfig seeds the player of a new session.
type PlayerConfig struct {
	Name       string         `yaml:"name"`
	Role       string         `yaml:"role"`
	Stats      []StatConfig   `yaml:"stats"`
	Currencies map[string]int `yaml:"currencies"`
}

type StatConfig struct {
	ID    string `yaml:"id"`
	Value int    `yaml:"value"`
}

type RulesConfig struct {
	Reputation        BoundsConfig `yaml:"reputation"`
	Relationship      BoundsConfig `yaml:"relationship"`
	MaxDetailsLength  int          `yaml:"max_details_length"`
	MaxListItems      int          `yaml:"max_list_items"`
	MaxLevelsPerEvent int          `yaml:"max_levels_per_event"`
	ExpToNext         int          `yaml:"exp_to_next"`
	ExpMultiplier     float64      `yaml:"exp_multiplier"`
}

type BoundsConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// ParseEnv overlays environment variables onto target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Save) == "" {
		cfg.Save = DefaultSavePath
	}
	if strings.TrimSpace(cfg.Store.DSN) == "" {
		cfg.Store.DSN = DefaultStoreDSN
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Player.Name) == "" {
		cfg.Player.Name = "Wanderer"
	}
	if cfg.Rules.Reputation == (BoundsConfig{}) {
		cfg.Rules.Reputation = BoundsConfig{Min: -100, Max: 100}
	}
	if cfg.Rules.Relationship == (BoundsConfig{}) {
		cfg.Rules.Relationship = BoundsConfig{Min: -100, Max: 100}
	}
	if cfg.Rules.MaxDetailsLength == 0 {
		cfg.Rules.MaxDetailsLength = 320
	}
	if cfg.Rules.MaxListItems == 0 {
		cfg.Rules.MaxListItems = 8
	}
	if cfg.Rules.MaxLevelsPerEvent == 0 {
		cfg.Rules.MaxLevelsPerEvent = 100
	}
	if cfg.Rules.ExpToNext == 0 {
		cfg.Rules.ExpToNext = 100
	}
	if cfg.Rules.ExpMultiplier == 0 {
		cfg.Rules.ExpMultiplier = 2.0
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if !ValidDSN(cfg.Store.DSN) {
		return fmt.Errorf("unsupported store dsn: %s", cfg.Store.DSN)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	if cfg.Rules.Reputation.Min >= cfg.Rules.Reputation.Max {
		return fmt.Errorf("reputation min must be below max")
	}
	if cfg.Rules.Relationship.Min >= cfg.Rules.Relationship.Max {
		return fmt.Errorf("relationship min must be below max")
	}
	if cfg.Rules.MaxDetailsLength < 4 {
		return fmt.Errorf("max_details_length must be at least 4")
	}
	if cfg.Rules.MaxListItems < 1 {
		return fmt.Errorf("max_list_items must be positive")
	}
	if cfg.Rules.MaxLevelsPerEvent < 1 {
		return fmt.Errorf("max_levels_per_event must be positive")
	}
	if cfg.Rules.ExpToNext < 1 {
		return fmt.Errorf("exp_to_next must be positive")
	}
	if cfg.Rules.ExpMultiplier < 1 {
		return fmt.Errorf("exp_multiplier must be at least 1")
	}

	seen := make(map[string]struct{})
	for i, stat := range cfg.Player.Stats {
		if strings.TrimSpace(stat.ID) == "" {
			return fmt.Errorf("player stat %d id is required", i)
		}
		key := strings.ToLower(stat.ID)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate player stat: %s", stat.ID)
		}
		seen[key] = struct{}{}
	}
	for currency, amount := range cfg.Player.Currencies {
		if amount < 0 {
			return fmt.Errorf("starting balance for %s is negative", currency)
		}
	}

	return nil
}

// ValidDSN reports whether dsn names a supported store driver.
func ValidDSN(dsn string) bool {
	for _, prefix := range []string{"sqlite://", "postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unsupported log level: %s", s)
	}
	return level, nil
}
