package config

import (
	"os"
	"strconv"
)

const envConfigPath = "PLAYSTATE_CONFIG_PATH"

type envVar struct {
	name  string
	desc  string
	apply func(*Config, string)
}

var supportedEnvVars = []envVar{
	{
		// Documentation only.  The path is read before the config is loaded.
		name:  envConfigPath,
		desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) {},
	},
	{
		name:  "PLAYSTATE_CONFIG_PLAYER_TYPE",
		desc:  "Sets the player backend type.  Currently only `mpv`.  Default: mpv",
		apply: func(c *Config, s string) { c.Player.Type = s },
	},
	{
		name:  "PLAYSTATE_CONFIG_PLAYER_PATH",
		desc:  "Sets the path to the mpv binary.  Default: mpv",
		apply: func(c *Config, s string) { c.Player.Path = s },
	},
	{
		name:  "PLAYSTATE_CONFIG_PLAYER_ARGS",
		desc:  "Sets extra arguments passed to mpv.  Default: None",
		apply: func(c *Config, s string) { c.Player.Args = s },
	},
	{
		name:  "PLAYSTATE_CONFIG_PLAYER_SOCKET_PATH",
		desc:  "Sets the mpv IPC socket or named pipe path.  Default: generated per run",
		apply: func(c *Config, s string) { c.Player.SocketPath = s },
	},
	{
		name: "PLAYSTATE_CONFIG_PLAYBACK_AUTO_ADVANCE",
		desc: "Whether to load the next source when one finishes.  Default: true",
		apply: func(c *Config, s string) {
			if v, err := strconv.ParseBool(s); err == nil {
				c.Playback.AutoAdvance = &v
			}
		},
	},
	{
		name: "PLAYSTATE_CONFIG_PLAYBACK_STALL_PRECISION",
		desc: "Decimal places used to decide whether playback has moved since a stall.  Default: 2",
		apply: func(c *Config, s string) {
			if v, err := strconv.Atoi(s); err == nil {
				c.Playback.StallPrecision = v
			}
		},
	},
	{
		name: "PLAYSTATE_CONFIG_PLAYBACK_SEEK_STEP",
		desc: "Seconds skipped by the seek keys.  Default: 5",
		apply: func(c *Config, s string) {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				c.Playback.SeekStep = v
			}
		},
	},
	{
		name: "PLAYSTATE_CONFIG_PLAYBACK_VOLUME_STEP",
		desc: "Volume percent changed by the volume keys.  Default: 5",
		apply: func(c *Config, s string) {
			if v, err := strconv.Atoi(s); err == nil {
				c.Playback.VolumeStep = v
			}
		},
	},
	{
		name:  "PLAYSTATE_CONFIG_LOGGING_LEVEL",
		desc:  "Sets the logging level.  One of: trace, debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) { c.Logging.Level = s },
	},
	{
		name:  "PLAYSTATE_CONFIG_LOGGING_FILE_PATH",
		desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) { c.Logging.FilePath = s },
	},
}

func applyEnvVarOverrides(c *Config) {
	for _, envVar := range supportedEnvVars {
		if value := os.Getenv(envVar.name); value != "" {
			envVar.apply(c, value)
		}
	}
}

// EnvVar describes a supported environment variable override
type EnvVar struct {
	Name        string
	Description string
}

// EnvVars lists the supported environment variable overrides
func EnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(supportedEnvVars))
	for _, v := range supportedEnvVars {
		vars = append(vars, EnvVar{Name: v.name, Description: v.desc})
	}
	return vars
}
