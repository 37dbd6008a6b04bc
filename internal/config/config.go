// Package config loads the server configuration: a YAML file with
// environment overrides, so deployments can tweak single values without
// editing the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr    string `yaml:"listen_addr"`
	JoinDelayMs   int    `yaml:"join_delay_ms"`
	MoveTimeoutMs int    `yaml:"move_timeout_ms"`
	TablePath     string `yaml:"table_path"`
	UsersDBPath   string `yaml:"users_db_path"`
	JournalDir    string `yaml:"journal_dir"`
	JWTSecret     string `yaml:"jwt_secret"`
	Debug         bool   `yaml:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ListenAddr:    ":8080",
		JoinDelayMs:   30000,
		MoveTimeoutMs: 60000,
		TablePath:     "data/table.yaml",
		UsersDBPath:   "data/users.db",
		JournalDir:    "",
		JWTSecret:     "",
	}
}

// Load reads the config file at path (optional) and applies MAGNIFICO_*
// environment overrides on top.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parsing config: %w", err)
		}
	}

	overrideString("MAGNIFICO_LISTEN_ADDR", &c.ListenAddr)
	overrideString("MAGNIFICO_TABLE_PATH", &c.TablePath)
	overrideString("MAGNIFICO_USERS_DB_PATH", &c.UsersDBPath)
	overrideString("MAGNIFICO_JOURNAL_DIR", &c.JournalDir)
	overrideString("MAGNIFICO_JWT_SECRET", &c.JWTSecret)
	if err := overrideInt("MAGNIFICO_JOIN_DELAY_MS", &c.JoinDelayMs); err != nil {
		return c, err
	}
	if err := overrideInt("MAGNIFICO_MOVE_TIMEOUT_MS", &c.MoveTimeoutMs); err != nil {
		return c, err
	}
	overrideBool("MAGNIFICO_DEBUG", &c.Debug)

	if c.JoinDelayMs <= 0 {
		return c, fmt.Errorf("join_delay_ms must be positive, got %d", c.JoinDelayMs)
	}
	if c.MoveTimeoutMs <= 0 {
		return c, fmt.Errorf("move_timeout_ms must be positive, got %d", c.MoveTimeoutMs)
	}
	return c, nil
}

// JoinDelay is how long a table with two or three seats waits before
// starting anyway.
func (c Config) JoinDelay() time.Duration {
	return time.Duration(c.JoinDelayMs) * time.Millisecond
}

// MoveTimeout is the per-move decision window.
func (c Config) MoveTimeout() time.Duration {
	return time.Duration(c.MoveTimeoutMs) * time.Millisecond
}

func overrideString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func overrideInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	*dst = n
	return nil
}

func overrideBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v == "1" || v == "true"
	}
}
