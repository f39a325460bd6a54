// Package config loads pouch settings from defaults, an optional YAML file and
// POUCH_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/internal/errs"
)

const envPrefix = "POUCH"

// Config is the full pouch configuration.
type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
}

// CacheConfig sizes the cache and sets the entry TTL.
type CacheConfig struct {
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ClientConfig is the address recorded by the client facade.
type ClientConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configFile when given, otherwise looks for config.yaml in
// ./configs and the working directory. A missing default file is not an error.
func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Debug(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Debug(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errs.Wrap(err, "validate config")
	}

	logging.Debug(
		logCtx,
		"config loaded",
		slog.Int("cache_capacity", cfg.Cache.Capacity),
		slog.Duration("cache_ttl", cfg.Cache.TTL),
		slog.String("client_addr", cfg.Client.Addr()),
	)

	return cfg, nil
}

// Validate rejects settings the cache or the client would refuse anyway, so
// the failure names the config key.
func (c Config) Validate() error {
	var problems []error

	if c.Cache.Capacity < 1 {
		problems = append(problems, fmt.Errorf("cache.capacity must be at least 1, got %d", c.Cache.Capacity))
	}
	if c.Cache.TTL < 0 {
		problems = append(problems, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	if strings.TrimSpace(c.Client.Host) == "" {
		problems = append(problems, errors.New("client.host is required"))
	}
	if c.Client.Port < 1 || c.Client.Port > 65535 {
		problems = append(problems, fmt.Errorf("client.port must be in 1..65535, got %d", c.Client.Port))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, errs.Wrap(err, "log.level"))
	}

	return errors.Join(problems...)
}

// Addr joins host and port, bracketing IPv6 hosts.
func (c ClientConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.capacity", 300)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("client.host", "localhost")
	v.SetDefault("client.port", 11211)
	v.SetDefault("log.level", "info")
}
