package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/matzehuels/sdkorder/pkg/cache"
)

// Config holds settings read from sdkorder.yaml (or .toml) and SDKORDER_*
// environment variables. Command-line flags override it.
type Config struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	Detailed     bool
	LogLevel     log.Level

	// File is the config file that was read, empty when none was found.
	File string
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// defaultConfig returns the settings used when no config file exists.
func defaultConfig() Config {
	return Config{
		CacheEnabled: true,
		CacheTTL:     cache.TTLReport,
		LogLevel:     log.InfoLevel,
	}
}

// loadConfig reads the config file from the given directories, first match
// wins. A missing file is not an error.
func loadConfig(dirs ...string) (Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName(appName)
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetDefault("cache.enabled", cfg.CacheEnabled)
	v.SetDefault("cache.ttl", cfg.CacheTTL)
	v.SetDefault("render.detailed", cfg.Detailed)
	v.SetDefault("log.level", cfg.LogLevel.String())

	// SDKORDER_CACHE_TTL overrides cache.ttl, and so on.
	v.SetEnvPrefix("SDKORDER")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	level, err := log.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return cfg, fmt.Errorf("config log.level: %w", err)
	}
	ttl := v.GetDuration("cache.ttl")
	if ttl < 0 {
		return cfg, fmt.Errorf("config cache.ttl must not be negative, got %s", ttl)
	}

	cfg.CacheEnabled = v.GetBool("cache.enabled")
	cfg.CacheTTL = ttl
	cfg.Detailed = v.GetBool("render.detailed")
	cfg.LogLevel = level
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

// configDirs returns the directories searched for a config file: the working
// directory, then $XDG_CONFIG_HOME/sdkorder (or ~/.config/sdkorder).
func configDirs() []string {
	dirs := []string{"."}
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return append(dirs, filepath.Join(home, appName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", appName))
	}
	return dirs
}
