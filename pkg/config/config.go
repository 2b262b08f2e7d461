// Package config loads askgpt configuration from the user config file
// and ASKGPT_* environment variables via viper. Settings that gate
// behavior elsewhere (command evaluation, tool permissions) are resolved
// here once so the rest of the code never consults the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the user-facing configuration for askgpt.
type Config struct {
	// EnableCommandEval enables $`cmd` evaluation inside command templates.
	// nil means "not set" and defers to the environment toggle.
	EnableCommandEval *bool    `yaml:"enable_command_eval" mapstructure:"enable_command_eval"`
	AllowedTools      []string `yaml:"allowed_tools" mapstructure:"allowed_tools"`
	BlockedTools      []string `yaml:"blocked_tools" mapstructure:"blocked_tools"`
	LogLevel          string   `yaml:"log_level" mapstructure:"log_level"`
}

// EnvCommandEval is the environment toggle for shell evaluation in
// command templates. Disabled unless set to a truthy value.
const EnvCommandEval = "ASKGPT_ENABLE_COMMAND_EVAL"

// Init configures viper defaults, the config file search path, and the
// ASKGPT_ environment prefix. Safe to call more than once.
func Init() {
	viper.SetEnvPrefix("ASKGPT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".askgpt"))
	}
	viper.AddConfigPath(".")

	viper.SetDefault("log_level", "info")

	// Missing config file is fine, first run has none
	_ = viper.ReadInConfig()
}

// Load unmarshals the current viper state into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return cfg, nil
}

// IsTruthy reports whether s is one of the accepted truthy spellings
// for boolean-like toggles: "true", "1", "yes", "on" (case-insensitive).
// Everything else, including the empty string, is falsy.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// ResolveCommandEval computes the effective command-eval toggle.
// An explicit setting wins; otherwise the environment toggle is parsed
// against the fixed truthy set; otherwise evaluation stays disabled.
func ResolveCommandEval(explicit *bool) bool {
	if explicit != nil {
		return *explicit
	}
	return IsTruthy(os.Getenv(EnvCommandEval))
}
