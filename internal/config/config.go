package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/calcx/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyPluginsDir      = "plugins.dir"
	KeyHistoryFile     = "history.file"
	KeyHistoryBackend  = "history.backend"
	KeyHistoryAutosave = "history.autosave"
	KeyLogLevel        = "log.level"
)

// Settings is the typed view over the keys above.
type Settings struct {
	PluginsDir      string
	HistoryFile     string
	HistoryBackend  string
	HistoryAutosave bool
	LogLevel        string
}

// Dir returns the path to the calc config directory (~/.calc/).
// CALC_HOME overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.calc/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	dir := Dir()
	viper.SetDefault(KeyPluginsDir, filepath.Join(dir, "plugins"))
	viper.SetDefault(KeyHistoryFile, filepath.Join(dir, "data", "history.csv"))
	viper.SetDefault(KeyHistoryBackend, "csv")
	viper.SetDefault(KeyHistoryAutosave, true)
	viper.SetDefault(KeyLogLevel, "info")

	// The bare LOG_LEVEL variable is honored after the prefixed one.
	_ = viper.BindEnv(KeyLogLevel, branding.EnvVar("LOG_LEVEL"), "LOG_LEVEL")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the resolved settings. Load must have been called.
func Current() Settings {
	return Settings{
		PluginsDir:      ExpandPath(viper.GetString(KeyPluginsDir)),
		HistoryFile:     ExpandPath(viper.GetString(KeyHistoryFile)),
		HistoryBackend:  strings.ToLower(viper.GetString(KeyHistoryBackend)),
		HistoryAutosave: viper.GetBool(KeyHistoryAutosave),
		LogLevel:        viper.GetString(KeyLogLevel),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ExpandPath resolves a leading "~/" against the user's home directory.
func ExpandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Clean(path)
}
