package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/pdv/internal/domain"
	"github.com/bnema/pdv/pkg/bytesize"
	"github.com/bnema/pdv/pkg/duration"
	"github.com/bnema/pdv/pkg/logger"
	"github.com/bnema/pdv/pkg/validation"
)

// EnvPrefix prefixes every environment override, e.g. PDV_SERVER_PORT.
const EnvPrefix = "PDV"

// MinSessionSecretLength is the shortest accepted cookie signing secret.
const MinSessionSecretLength = 32

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Backup   BackupConfig   `mapstructure:"backup" yaml:"backup"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds the HTTP listener and session settings.
type ServerConfig struct {
	Host          string        `mapstructure:"host" yaml:"host"`
	Port          int           `mapstructure:"port" yaml:"port"`
	SessionSecret string        `mapstructure:"session_secret" yaml:"session_secret"`
	SecureCookie  bool          `mapstructure:"secure_cookie" yaml:"secure_cookie"`
	SessionMaxAge time.Duration `mapstructure:"session_max_age" yaml:"session_max_age"`
	// LoginPerMinute is the login attempt refill rate per client IP. Zero disables throttling.
	LoginPerMinute float64 `mapstructure:"login_per_minute" yaml:"login_per_minute"`
	LoginBurst     int     `mapstructure:"login_burst" yaml:"login_burst"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// BackupConfig controls where snapshots live and how many are kept.
type BackupConfig struct {
	Dir            string `mapstructure:"dir" yaml:"dir"`
	KeepLast       int    `mapstructure:"keep_last" yaml:"keep_last"`
	MaxRestoreSize string `mapstructure:"max_restore_size" yaml:"max_restore_size"`

	maxRestoreBytes int64
}

// LoggingConfig sets the log level and the optional rotated log file.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.secure_cookie", false)
	v.SetDefault("server.session_max_age", 12*time.Hour)
	v.SetDefault("server.login_per_minute", 10)
	v.SetDefault("server.login_burst", 5)

	v.SetDefault("database.path", filepath.Join("data", "pdv.db"))

	v.SetDefault("backup.dir", filepath.Join("data", "backups"))
	v.SetDefault("backup.keep_last", 0)
	v.SetDefault("backup.max_restore_size", "512MB")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationHook)); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Database.Path = validation.ExpandHome(cfg.Database.Path)
	cfg.Backup.Dir = validation.ExpandHome(cfg.Backup.Dir)
	cfg.Logging.File = validation.ExpandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded", "database", cfg.Database.Path, "backup_dir", cfg.Backup.Dir)
	return &cfg, nil
}

// durationHook decodes string durations with day and week units, e.g.
// session_max_age: 7d.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	return duration.Parse(reflect.ValueOf(data).String())
}

// Validate checks settings needed by every command.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 1 and 65535", domain.ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", domain.ErrInvalidConfig)
	}
	if c.Backup.Dir == "" {
		return fmt.Errorf("%w: backup.dir is required", domain.ErrInvalidConfig)
	}
	if c.Backup.KeepLast < 0 {
		return fmt.Errorf("%w: backup.keep_last cannot be negative", domain.ErrInvalidConfig)
	}
	if c.Backup.MaxRestoreSize != "" {
		n, err := bytesize.Parse(c.Backup.MaxRestoreSize)
		if err != nil {
			return fmt.Errorf("%w: backup.max_restore_size: %v", domain.ErrInvalidConfig, err)
		}
		if n <= 0 {
			return fmt.Errorf("%w: backup.max_restore_size must be positive", domain.ErrInvalidConfig)
		}
		c.Backup.maxRestoreBytes = n
	}
	if c.Server.LoginPerMinute < 0 || c.Server.LoginBurst < 0 {
		return fmt.Errorf("%w: server login rate limits cannot be negative", domain.ErrInvalidConfig)
	}
	if c.Server.LoginPerMinute > 0 && c.Server.LoginBurst == 0 {
		return fmt.Errorf("%w: server.login_burst must be positive when login_per_minute is set", domain.ErrInvalidConfig)
	}
	if c.Server.SessionMaxAge < 0 {
		return fmt.Errorf("%w: server.session_max_age cannot be negative", domain.ErrInvalidConfig)
	}
	return nil
}

// ValidateServe checks settings only the HTTP server needs.
func (c *Config) ValidateServe() error {
	if len(c.Server.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("%w: server.session_secret must be at least %d characters", domain.ErrInvalidConfig, MinSessionSecretLength)
	}
	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// BackupSettings maps backup settings to the domain type.
func (c *Config) BackupSettings() domain.BackupConfig {
	return domain.BackupConfig{
		Dir:             c.Backup.Dir,
		KeepLast:        c.Backup.KeepLast,
		MaxRestoreBytes: c.Backup.maxRestoreBytes,
	}
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Server.SessionSecret != "" {
		c.Server.SessionSecret = "********"
	}
	return c
}
