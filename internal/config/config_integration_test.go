package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "playstate-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Fatalf("Failed to remove temp directory: %v", err)
		}
	})

	tmpConfigPath := filepath.Join(tmpDir, "config.yaml")
	setEnv(t, envConfigPath, tmpConfigPath)

	t.Cleanup(func() {
		cleanupEnvVars(t)
	})

	return tmpConfigPath
}

// TestConfigIntegration tests the config package with actual file operations
// This test uses a temporary directory to avoid interfering with real user configs
func TestConfigIntegration(t *testing.T) {
	t.Run("LoadDefaultConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		config := loadConfig(t)

		assert.Equal(t, "mpv", config.Player.Type)
		assert.Equal(t, "mpv", config.Player.Path)
		assert.Empty(t, config.Player.SocketPath)
		assert.True(t, config.Playback.AutoAdvanceEnabled())
		assert.Equal(t, 2, config.Playback.Precision())
		assert.Equal(t, 5.0, config.Playback.SeekStep)
		assert.Equal(t, 5, config.Playback.VolumeStep)
		assert.Equal(t, "info", config.Logging.Level)
		assert.NotEmpty(t, config.Logging.FilePath)

		if _, err := os.Stat(tmpConfigPath); os.IsNotExist(err) {
			t.Errorf("Config file was not created at %s", tmpConfigPath)
		}

		// The 'dynamic' configurations must not be saved when the default config is written
		savedConfig, _ := loadFromDisk(tmpConfigPath)
		assert.Empty(t, savedConfig.Logging.FilePath)
	})

	t.Run("SaveAndLoadConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		autoAdvance := false
		customConfig := &Config{
			Player: PlayerConfig{
				Type:       "mpv",
				Path:       "/usr/local/bin/mpv",
				Args:       "--fullscreen --ao=pulse",
				SocketPath: "/tmp/custom.sock",
			},
			Playback: PlaybackConfig{
				AutoAdvance:    &autoAdvance,
				StallPrecision: 3,
				SeekStep:       10,
				VolumeStep:     2,
			},
			Logging: LoggingConfig{
				Level:    "error",
				FilePath: "/var/log/playstate.log",
			},
		}

		saveConfig(t, customConfig, tmpConfigPath)
		loadedConfig := loadConfig(t)

		assert.Equal(t, "/usr/local/bin/mpv", loadedConfig.Player.Path)
		assert.Equal(t, "--fullscreen --ao=pulse", loadedConfig.Player.Args)
		assert.Equal(t, "/tmp/custom.sock", loadedConfig.Player.SocketPath)
		assert.False(t, loadedConfig.Playback.AutoAdvanceEnabled())
		assert.Equal(t, 3, loadedConfig.Playback.Precision())
		assert.Equal(t, 10.0, loadedConfig.Playback.SeekStep)
		assert.Equal(t, 2, loadedConfig.Playback.VolumeStep)
		assert.Equal(t, "error", loadedConfig.Logging.Level)
		assert.Equal(t, "/var/log/playstate.log", loadedConfig.Logging.FilePath)
	})

	t.Run("PartialFileKeepsDefaults", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		require.NoError(t, os.WriteFile(tmpConfigPath, []byte("playback:\n  seek_step: 30\n"), 0600))

		config := loadConfig(t)

		assert.Equal(t, 30.0, config.Playback.SeekStep)
		assert.Equal(t, 5, config.Playback.VolumeStep)
		assert.Equal(t, "mpv", config.Player.Path)
		assert.True(t, config.Playback.AutoAdvanceEnabled())
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		if err := os.WriteFile(tmpConfigPath, []byte("invalid: yaml: ["), 0600); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := Load()
		if err == nil {
			t.Error("Expected error when loading invalid YAML, got nil")
		}
	})

	t.Run("EnvironmentVariableOverrides", func(t *testing.T) {
		setupTestConfig(t)

		setEnv(t, "PLAYSTATE_CONFIG_PLAYER_PATH", "/opt/mpv")
		setEnv(t, "PLAYSTATE_CONFIG_PLAYER_ARGS", "--fullscreen")
		setEnv(t, "PLAYSTATE_CONFIG_PLAYER_SOCKET_PATH", "/tmp/env.sock")
		setEnv(t, "PLAYSTATE_CONFIG_PLAYBACK_AUTO_ADVANCE", "false")
		setEnv(t, "PLAYSTATE_CONFIG_PLAYBACK_STALL_PRECISION", "4")
		setEnv(t, "PLAYSTATE_CONFIG_PLAYBACK_SEEK_STEP", "2.5")
		setEnv(t, "PLAYSTATE_CONFIG_PLAYBACK_VOLUME_STEP", "10")
		setEnv(t, "PLAYSTATE_CONFIG_LOGGING_LEVEL", "warn")
		setEnv(t, "PLAYSTATE_CONFIG_LOGGING_FILE_PATH", "/playstate.log")

		config := loadConfig(t)

		assert.Equal(t, "/opt/mpv", config.Player.Path)
		assert.Equal(t, "--fullscreen", config.Player.Args)
		assert.Equal(t, "/tmp/env.sock", config.Player.SocketPath)
		assert.False(t, config.Playback.AutoAdvanceEnabled())
		assert.Equal(t, 4, config.Playback.Precision())
		assert.Equal(t, 2.5, config.Playback.SeekStep)
		assert.Equal(t, 10, config.Playback.VolumeStep)
		assert.Equal(t, "warn", config.Logging.Level)
		assert.Equal(t, "/playstate.log", config.Logging.FilePath)

		// Env var overrides must not be persisted to disk
		unsetEnv(t, "PLAYSTATE_CONFIG_LOGGING_LEVEL")

		config = loadConfig(t)

		assert.Equal(t, "info", config.Logging.Level)
	})

	t.Run("InvalidNumericEnvIgnored", func(t *testing.T) {
		setupTestConfig(t)
		setEnv(t, "PLAYSTATE_CONFIG_PLAYBACK_STALL_PRECISION", "lots")
		setEnv(t, "PLAYSTATE_CONFIG_PLAYBACK_AUTO_ADVANCE", "maybe")

		config := loadConfig(t)

		assert.Equal(t, 2, config.Playback.Precision())
		assert.True(t, config.Playback.AutoAdvanceEnabled())
	})

	t.Run("ModifyConfig", func(t *testing.T) {
		setupTestConfig(t)
		config := loadConfig(t)

		assert.Equal(t, 5, config.Playback.VolumeStep)

		err := UpdateConfig(func(config *Config) {
			config.Playback.VolumeStep = 15
		})
		if err != nil {
			t.Fatalf("Failed to update config: %v", err)
		}

		config = loadConfig(t)
		assert.Equal(t, 15, config.Playback.VolumeStep)
	})
}

func TestPlaybackPrecision(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		expected  int
	}{
		{"Unset", 0, 2},
		{"Negative", -1, 2},
		{"InRange", 4, 4},
		{"TooLarge", 12, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlaybackConfig{StallPrecision: tt.precision}.Precision())
		})
	}
}

func TestEnvVarsDocumented(t *testing.T) {
	for _, v := range EnvVars() {
		assert.True(t, strings.HasPrefix(v.Name, "PLAYSTATE_CONFIG_"), v.Name)
		assert.NotEmpty(t, v.Description, v.Name)
	}
}

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	err := os.Setenv(key, value)
	if err != nil {
		t.Fatalf("Failed to set environment variable: %v", err)
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	err := os.Unsetenv(key)
	if err != nil {
		t.Fatalf("Failed to unset environment variable: %v", err)
	}
}

func saveConfig(t *testing.T, config *Config, configPath string) {
	t.Helper()
	if err := save(config, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
}

func loadConfig(t *testing.T) *Config {
	t.Helper()
	config, err := Load()
	if err != nil {
		t.Fatalf("Loading of config failed: %v", err)
	}
	return config
}

// Removes any env vars with the PLAYSTATE_CONFIG prefix to ensure test isolation
func cleanupEnvVars(t *testing.T) {
	t.Helper()

	for _, envVar := range os.Environ() {
		if key := strings.Split(envVar, "=")[0]; strings.HasPrefix(key, "PLAYSTATE_CONFIG") {
			unsetEnv(t, key)
		}
	}
}
