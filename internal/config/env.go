package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overrides cfg from TASKODO_* environment variables.
// Unset or unparsable values leave the file setting alone.
func ApplyEnv(cfg *Config) {
	if val := getEnv("TASKODO_ADDR"); val != "" {
		cfg.Server.Addr = val
	}
	if val := getEnv("TASKODO_DATA_DIR"); val != "" {
		prev := cfg.Storage.DataDir
		cfg.Storage.DataDir = val
		// keep the sqlite file next to the data unless it was set explicitly
		if cfg.Storage.SQLitePath == defaultSQLitePath(prev) {
			cfg.Storage.SQLitePath = defaultSQLitePath(val)
		}
	}
	if val := getEnv("TASKODO_STORAGE"); val != "" {
		cfg.Storage.Driver = strings.ToLower(val)
	}
	if val := getEnv("TASKODO_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLitePath = val
	}

	// Support preset profiles
	if name := getEnv("TASKODO_PROFILE"); name != "" {
		if p, ok := Preset(name); ok {
			cfg.Analytics.Profile = p.Name
			cfg.Analytics.TargetRate = p.TargetRate
		}
	}
	if val := getEnvFloat("TASKODO_TARGET_RATE"); val > 0 && val <= 1 {
		cfg.Analytics.TargetRate = val
	}
	if val := getEnv("TASKODO_MODE"); val != "" {
		cfg.Analytics.DefaultMode = strings.ToLower(val)
	}
}

// FromEnv is the default config with environment overrides applied.
func FromEnv() *Config {
	cfg := Default()
	ApplyEnv(cfg)
	return cfg
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvFloat(key string) float64 {
	val := getEnv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}
