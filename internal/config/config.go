// Package config loads service settings from defaults, an optional config.yaml,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Server    ServerSettings    `mapstructure:"server"`
	Database  DatabaseSettings  `mapstructure:"database"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Materials MaterialsSettings `mapstructure:"materials"`
	Cache     CacheSettings     `mapstructure:"cache"`
	Log       LogSettings       `mapstructure:"log"`
}

type ServerSettings struct {
	Addr            string        `mapstructure:"addr"`
	TLSCert         string        `mapstructure:"tls_cert"`
	TLSKey          string        `mapstructure:"tls_key"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseSettings struct {
	URL string `mapstructure:"url"`
}

type AuthSettings struct {
	TokenKey  string  `mapstructure:"token_key"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second per client
	RateBurst int     `mapstructure:"rate_burst"`
}

type MaterialsSettings struct {
	// File is a YAML or XLSX grade table; empty uses the embedded one.
	File string `mapstructure:"file"`
}

type CacheSettings struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogSettings struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":443")
	v.SetDefault("server.tls_cert", "server.crt")
	v.SetDefault("server.tls_key", "server.key")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.url", "")

	v.SetDefault("auth.token_key", "")
	v.SetDefault("auth.rate_limit", 1.0)
	v.SetDefault("auth.rate_burst", 3)

	v.SetDefault("materials.file", "")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads settings. A missing .env or config.yaml is not an error. Paths
// are searched for config.yaml; without paths "." and "./config" are used.
func Load(paths ...string) (*Settings, error) {
	// existing environment variables win over .env
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("TIMBER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// names used by earlier deployments
	if err := v.BindEnv("database.url", "TIMBER_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("auth.token_key", "TIMBER_AUTH_TOKEN_KEY", "TOKEN_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return s, nil
}

// Validate checks the settings the HTTP service needs.
func (s *Settings) Validate() error {
	if s.Auth.TokenKey == "" {
		return errors.New("auth.token_key (TOKEN_KEY) is not set")
	}
	if s.Auth.RateLimit <= 0 || s.Auth.RateBurst <= 0 {
		return fmt.Errorf("auth rate limit must be positive, got %g/s burst %d", s.Auth.RateLimit, s.Auth.RateBurst)
	}
	if s.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", s.Server.ShutdownTimeout)
	}
	switch s.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", s.Log.Format)
	}
	return nil
}
