package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Konsultn-Engineering/propmeta/reflection"
	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

// EnvPrefix prefixes environment overrides: PROPMETA_CACHE_SIZE sets cache.size.
const EnvPrefix = "PROPMETA"

// Config is the propmeta configuration.
type Config struct {
	Cache    CacheConfig  `mapstructure:"cache"`
	Access   AccessConfig `mapstructure:"access"`
	TagName  string       `mapstructure:"tag_name"`
	LogLevel string       `mapstructure:"log_level"`
}

// CacheConfig configures the reflector cache.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Size bounds the cache; zero means unbounded.
	Size int `mapstructure:"size"`
}

// AccessConfig configures access to non-public members.
type AccessConfig struct {
	AllowPrivate bool `mapstructure:"allow_private"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 0)
	v.SetDefault("access.allow_private", true)
	v.SetDefault("tag_name", typeinfo.DefaultTagName)
	v.SetDefault("log_level", "info")
}

// Load reads the configuration from path, or from propmeta.yaml in the working
// directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("propmeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size)
	}
	if strings.TrimSpace(c.TagName) == "" {
		return fmt.Errorf("tag_name must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Logger builds a production logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if level == zapcore.DebugLevel {
		zc.Development = true
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}

// FactoryOptions translates the configuration into reflector factory options.
func (c *Config) FactoryOptions(logger *zap.Logger) []reflection.Option {
	policy := reflection.DenyAccess
	if c.Access.AllowPrivate {
		policy = reflection.CanControlMemberAccessible
	}
	return []reflection.Option{
		reflection.WithCacheEnabled(c.Cache.Enabled),
		reflection.WithCacheSize(c.Cache.Size),
		reflection.WithAccessPolicy(policy),
		reflection.WithLogger(logger),
	}
}

// Registry returns a descriptor registry reading the configured struct tag.
func (c *Config) Registry() *typeinfo.Registry {
	return typeinfo.NewRegistry(typeinfo.WithTagName(c.TagName))
}
