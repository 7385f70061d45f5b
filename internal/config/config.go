package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogDir   string         `yaml:"log_dir" mapstructure:"log_dir"`
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
	Swarm    SwarmConfig    `yaml:"swarm" mapstructure:"swarm"`
	Sessions SessionsConfig `yaml:"sessions" mapstructure:"sessions"`
	Tools    ToolsConfig    `yaml:"tools" mapstructure:"tools"`
}

// DefaultsConfig carries the deployment-specific tuning of the executor: how
// long a command may run before it is promoted to background, how much output
// is captured for the caller, and how long a TERM gets before escalating.
type DefaultsConfig struct {
	TimeoutSeconds   int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxOutputBytes   int `yaml:"max_output_bytes" mapstructure:"max_output_bytes"`
	KillGraceSeconds int `yaml:"kill_grace_seconds" mapstructure:"kill_grace_seconds"`
}

type SwarmConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

type SessionsConfig struct {
	Shell          string `yaml:"shell" mapstructure:"shell"`
	MaxIdleMinutes int    `yaml:"max_idle_minutes" mapstructure:"max_idle_minutes"`
}

type ToolsConfig struct {
	AutoApprove        []string `yaml:"auto_approve" mapstructure:"auto_approve"`
	AllowedCommands    []string `yaml:"allowed_commands" mapstructure:"allowed_commands"`
	DisallowedCommands []string `yaml:"disallowed_commands" mapstructure:"disallowed_commands"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		LogDir: defaultLogDir(),
		Defaults: DefaultsConfig{
			TimeoutSeconds:   120,
			MaxOutputBytes:   64 * 1024,
			KillGraceSeconds: 3,
		},
		Swarm: SwarmConfig{
			MaxConcurrency: 3,
		},
		Sessions: SessionsConfig{
			Shell:          "/bin/sh",
			MaxIdleMinutes: 30,
		},
		Tools: ToolsConfig{
			AutoApprove: []string{"processes", "logs"},
		},
	}
}

func defaultLogDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "hive", "logs")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "hive", "logs")
}

func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hive", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hive", "config.yaml")
}

func Load() (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Search paths
	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "hive"))
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "hive"))
	}

	// Register every key with its default. This doubles as the env binding:
	// AutomaticEnv only overrides keys viper already knows about, so without
	// these a HIVE_* variable is ignored when no config file exists.
	v.SetDefault("log_dir", def.LogDir)
	v.SetDefault("defaults.timeout_seconds", def.Defaults.TimeoutSeconds)
	v.SetDefault("defaults.max_output_bytes", def.Defaults.MaxOutputBytes)
	v.SetDefault("defaults.kill_grace_seconds", def.Defaults.KillGraceSeconds)
	v.SetDefault("swarm.max_concurrency", def.Swarm.MaxConcurrency)
	v.SetDefault("sessions.shell", def.Sessions.Shell)
	v.SetDefault("sessions.max_idle_minutes", def.Sessions.MaxIdleMinutes)
	v.SetDefault("tools.auto_approve", def.Tools.AutoApprove)
	v.SetDefault("tools.allowed_commands", def.Tools.AllowedCommands)
	v.SetDefault("tools.disallowed_commands", def.Tools.DisallowedCommands)

	// Environment variables: HIVE_LOG_DIR, HIVE_DEFAULTS_TIMEOUT_SECONDS, ...
	v.SetEnvPrefix("HIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file; defaults plus env are fine.
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.LogDir = expandEnv(cfg.LogDir)
	cfg.Sessions.Shell = expandEnv(cfg.Sessions.Shell)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and fills gaps with defaults.
func (c *Config) Validate() error {
	if c.LogDir == "" {
		return fmt.Errorf("config: log_dir is required")
	}
	if c.Defaults.TimeoutSeconds < 1 {
		c.Defaults.TimeoutSeconds = 120
	}
	if c.Defaults.MaxOutputBytes < 1 {
		c.Defaults.MaxOutputBytes = 64 * 1024
	}
	if c.Defaults.KillGraceSeconds < 1 {
		c.Defaults.KillGraceSeconds = 3
	}
	if c.Swarm.MaxConcurrency < 1 {
		return fmt.Errorf("config: swarm.max_concurrency must be >= 1, got %d", c.Swarm.MaxConcurrency)
	}
	if c.Sessions.MaxIdleMinutes < 1 {
		c.Sessions.MaxIdleMinutes = 30
	}
	if c.Sessions.Shell == "" {
		c.Sessions.Shell = "/bin/sh"
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Defaults.TimeoutSeconds) * time.Second
}

func (c *Config) KillGrace() time.Duration {
	return time.Duration(c.Defaults.KillGraceSeconds) * time.Second
}

func (c *Config) SessionMaxIdle() time.Duration {
	return time.Duration(c.Sessions.MaxIdleMinutes) * time.Minute
}

// Save writes the configuration as YAML to the XDG config path, creating
// parent directories as needed.
func (c *Config) Save() (string, error) {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
