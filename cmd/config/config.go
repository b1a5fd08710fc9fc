package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	AWS      AWSConfig
}

type ServerConfig struct {
	Addr           string
	Mode           string
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type DatabaseConfig struct {
	Dialect string
	DSN     string
}

type AuthConfig struct {
	Secret              string
	TokenTTL            time.Duration
	HashPasswords       bool
	RequireExistingUser bool
}

type LogConfig struct {
	Level  string
	Format string
}

type AWSConfig struct {
	Region   string
	S3Bucket string
	S3Prefix string
}

// ArchiveEnabled reports whether deleted videos are copied to S3.
func (c AWSConfig) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("database.dialect", "sqlite3")
	v.SetDefault("database.dsn", "flaskrestapi.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 30*time.Minute)
	v.SetDefault("auth.hash_passwords", true)
	v.SetDefault("auth.require_existing_user", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.s3_bucket", "")
	v.SetDefault("aws.s3_prefix", "deleted-videos")
}

// Load reads config.yaml from dir, if present, and applies VIDEOAPI_*
// environment overrides on top of the defaults.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("videoapi")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			Mode:           v.GetString("server.mode"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			Dialect: v.GetString("database.dialect"),
			DSN:     v.GetString("database.dsn"),
		},
		Auth: AuthConfig{
			Secret:              v.GetString("auth.secret"),
			TokenTTL:            v.GetDuration("auth.token_ttl"),
			HashPasswords:       v.GetBool("auth.hash_passwords"),
			RequireExistingUser: v.GetBool("auth.require_existing_user"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		AWS: AWSConfig{
			Region:   v.GetString("aws.region"),
			S3Bucket: v.GetString("aws.s3_bucket"),
			S3Prefix: v.GetString("aws.s3_prefix"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must not be negative, got %s", c.Server.RequestTimeout)
	}
	switch c.Database.Dialect {
	case "sqlite3", "mysql":
	default:
		return fmt.Errorf("unsupported database.dialect %q", c.Database.Dialect)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.AWS.ArchiveEnabled() && c.AWS.Region == "" {
		return errors.New("aws.region is required when aws.s3_bucket is set")
	}
	return nil
}
