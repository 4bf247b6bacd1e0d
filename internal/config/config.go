package config

import (
	"dario.cat/mergo"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"runtime"
)

const (
	defaultStallPrecision = 2
	maxStallPrecision     = 6
)

// Config represents the application configuration
type Config struct {
	Player   PlayerConfig   `yaml:"player,omitempty"`
	Playback PlaybackConfig `yaml:"playback,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// PlayerConfig contains media player settings
type PlayerConfig struct {
	Type       string `yaml:"type,omitempty"` // "mpv"
	Path       string `yaml:"path,omitempty"`
	Args       string `yaml:"args,omitempty"`
	SocketPath string `yaml:"socket_path,omitempty"`
}

// PlaybackConfig contains settings for the playback session
type PlaybackConfig struct {
	// AutoAdvance is left nil in the defaults.  Merging into a nil pointer keeps an explicit false from the file.
	AutoAdvance    *bool   `yaml:"auto_advance,omitempty"`
	StallPrecision int     `yaml:"stall_precision,omitempty"`
	SeekStep       float64 `yaml:"seek_step,omitempty"`
	VolumeStep     int     `yaml:"volume_step,omitempty"`
}

// AutoAdvanceEnabled reports whether the next source should be loaded when one finishes.  Defaults to true.
func (p PlaybackConfig) AutoAdvanceEnabled() bool {
	return p.AutoAdvance == nil || *p.AutoAdvance
}

// Precision returns the number of decimal places used when comparing playback positions
func (p PlaybackConfig) Precision() int {
	switch {
	case p.StallPrecision <= 0:
		return defaultStallPrecision
	case p.StallPrecision > maxStallPrecision:
		return maxStallPrecision
	default:
		return p.StallPrecision
	}
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `yaml:"level,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
}

// Load builds a configuration struct from multiple sources using these steps:
// 1. Create a base config with default values
// 2. If no config file exists on disk, save the default config to that location
// 3. Apply 'dynamic' properties.  Dynamic properties are those that are determined at runtime, for example log file location which is different per OS.
// 4. Load & merge the config file, overwriting any defaults with user-specified values
// 5. Apply environment variable overrides
func Load() (*Config, error) {
	cfg := createBaseDefaultConfig()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to determine config file path: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// A failed write still lets the application start with defaults
		_ = save(cfg, configPath)
	}

	applyDynamicDefaults(cfg)

	fileConfig, err := loadFromDisk(configPath)
	if err != nil {
		return nil, err
	}
	if err = mergo.Merge(cfg, fileConfig, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("error merging config loaded from disk: %w", err)
	}

	applyEnvVarOverrides(cfg)

	return cfg, nil
}

// applyDynamicDefaults sets runtime-determined default values.  These are never written to disk.
func applyDynamicDefaults(cfg *Config) {
	cfg.Logging.FilePath = defaultLogFilePath()
}

// loadFromDisk loads the YAML config from disk and returns the unmarshalled Config
func loadFromDisk(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}

func save(cfg *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// UpdateConfig reads the existing config, applies the update function, and saves it back to disk
func UpdateConfig(updateFn func(*Config)) error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("unable to determine config file path: %w", err)
	}

	cfg, err := loadFromDisk(configPath)
	if err != nil {
		return fmt.Errorf("error loading config file from disk: %w", err)
	}

	updateFn(cfg)

	return save(cfg, configPath)
}

// getConfigPath returns the path to the config file.  Uses the environment variable override if present, else tries
// to use OS config location defaults.
func getConfigPath() (string, error) {
	configPath := os.Getenv(envConfigPath)
	if configPath != "" {
		return configPath, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "playstate", "config.yaml"), nil
}

func createBaseDefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Type: "mpv",
			Path: "mpv",
		},
		Playback: PlaybackConfig{
			StallPrecision: defaultStallPrecision,
			SeekStep:       5,
			VolumeStep:     5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultLogFilePath returns the path to the log file.  Tries to use expected OS location defaults.
func defaultLogFilePath() string {
	var basePath string
	homedir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "playstate.log")
	}

	switch runtime.GOOS {
	case "windows":
		// Windows:  %LOCALAPPDATA%\playstate\logs
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			basePath = filepath.Join(appData, "playstate", "logs")
		} else {
			basePath = filepath.Join(homedir, "AppData", "local", "playstate", "logs")
		}
	case "darwin":
		basePath = filepath.Join(homedir, "Library", "Logs", "playstate")
	default:
		// Linux/BSD:  XDG_STATE_HOME
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			basePath = filepath.Join(xdgState, "playstate", "logs")
		} else {
			basePath = filepath.Join(homedir, ".local", "state", "playstate", "logs")
		}
	}

	if err = os.MkdirAll(basePath, 0700); err != nil {
		return filepath.Join(".", "playstate.log")
	}
	return filepath.Join(basePath, "playstate.log")
}
