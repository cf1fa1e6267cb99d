package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the binaries look for the config file.
const DefaultPath = "taskodo_config.yml"

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Analytics AnalyticsConfig `yaml:"analytics" json:"analytics"`
	Board     BoardConfig     `yaml:"board" json:"board"`
	Reminders ReminderConfig  `yaml:"reminders" json:"reminders"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type StorageConfig struct {
	// Driver is one of file, sqlite or memory.
	Driver     string `yaml:"driver" json:"driver"`
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

type AnalyticsConfig struct {
	Profile     string  `yaml:"profile" json:"profile"`
	TargetRate  float64 `yaml:"target_rate" json:"target_rate"`
	DefaultMode string  `yaml:"default_mode" json:"default_mode"`
}

type BoardConfig struct {
	Colors []string `yaml:"colors" json:"colors"`
}

type ReminderConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Title   string `yaml:"title" json:"title"`
}

// DefaultColors is the task color palette offered by the board.
var DefaultColors = []string{
	"zinc", "red", "orange", "amber", "yellow", "lime", "green", "emerald",
	"teal", "cyan", "sky", "blue", "indigo", "violet", "purple", "fuchsia",
	"pink", "rose",
}

func (s *StorageConfig) ApplyDefaults() {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.Driver == "" {
		s.Driver = StorageFile
	}
	if strings.TrimSpace(s.DataDir) == "" {
		s.DataDir = "data"
	}
	if strings.TrimSpace(s.SQLitePath) == "" {
		s.SQLitePath = defaultSQLitePath(s.DataDir)
	}
}

func defaultSQLitePath(dataDir string) string {
	return filepath.Join(dataDir, "taskodo.db")
}

func (a *AnalyticsConfig) ApplyDefaults() {
	if p, ok := Preset(a.Profile); ok && a.TargetRate == 0 {
		a.TargetRate = p.TargetRate
	}
	if a.TargetRate <= 0 || a.TargetRate > 1 {
		a.TargetRate = 0.8
	}
	if a.DefaultMode == "" {
		a.DefaultMode = "week"
	}
}

func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":42069"
	}
	c.Storage.ApplyDefaults()
	c.Analytics.ApplyDefaults()
	if len(c.Board.Colors) == 0 {
		c.Board.Colors = append([]string(nil), DefaultColors...)
	}
	if c.Reminders.Title == "" {
		c.Reminders.Title = "Taskodo"
	}
}

// Validate reports settings that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("storage.driver %q: want file, sqlite or memory", c.Storage.Driver)
	}
	switch c.Analytics.DefaultMode {
	case "day", "week", "month":
	default:
		return fmt.Errorf("analytics.default_mode %q: want day, week or month", c.Analytics.DefaultMode)
	}
	return nil
}

func Default() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}
