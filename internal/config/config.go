// Package config loads kanban settings from kanban.yaml and KANBAN_*
// environment variables, and builds the collaborators they describe.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	fracdex "github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/siblinglock"
)

const (
	configFileName = "kanban"
	configFileType = "yaml"
	envPrefix      = "KANBAN"

	KeyDataDir      = "data_dir"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
	KeyMaxKeyLength = "allocator.max_key_length"
	KeyMaxBatch     = "allocator.max_batch"
	KeyJitterSpread = "allocator.jitter_spread"
	KeyLockBackend  = "lock.backend"
	KeyRedisAddr    = "lock.redis_addr"
	KeyNamespace    = "lock.namespace"
	KeyLockTTL      = "lock.ttl"
	KeyLockRetry    = "lock.retry"
)

// Lock backends.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidLockBackend = errors.New("invalid lock backend")
	ErrInvalidAllocator   = errors.New("invalid allocator settings")
	ErrInvalidLock        = errors.New("invalid lock settings")
)

type Config struct {
	DataDir   string          `mapstructure:"data_dir"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFormat string          `mapstructure:"log_format"`
	Allocator AllocatorConfig `mapstructure:"allocator"`
	Lock      LockConfig      `mapstructure:"lock"`
}

type AllocatorConfig struct {
	MaxKeyLength int `mapstructure:"max_key_length"`
	MaxBatch     int `mapstructure:"max_batch"`
	// JitterSpread is how many digits either side of the midpoint a
	// generated key may wander. Zero keeps generation deterministic.
	JitterSpread int `mapstructure:"jitter_spread"`
}

type LockConfig struct {
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	Namespace string        `mapstructure:"namespace"`
	TTL       time.Duration `mapstructure:"ttl"`
	Retry     time.Duration `mapstructure:"retry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, ".kanban")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyMaxKeyLength, fracdex.DefaultMaxKeyLength)
	v.SetDefault(KeyMaxBatch, fracdex.DefaultMaxBatch)
	v.SetDefault(KeyJitterSpread, 0)
	v.SetDefault(KeyLockBackend, LockLocal)
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyNamespace, "default")
	v.SetDefault(KeyLockTTL, siblinglock.DefaultTTL)
	v.SetDefault(KeyLockRetry, siblinglock.DefaultRetry)
}

// New returns a viper instance with defaults and environment binding but no
// file. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, or kanban.yaml from the working directory when path is
// empty. Only the implicit file may be missing.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings without touching the network or disk.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	if c.Allocator.MaxKeyLength < 2 || c.Allocator.MaxBatch < 1 || c.Allocator.JitterSpread < 0 {
		return fmt.Errorf("%w: max_key_length=%d max_batch=%d jitter_spread=%d",
			ErrInvalidAllocator, c.Allocator.MaxKeyLength, c.Allocator.MaxBatch, c.Allocator.JitterSpread)
	}
	switch c.Lock.Backend {
	case LockLocal:
	case LockRedis:
		if c.Lock.RedisAddr == "" || c.Lock.Namespace == "" {
			return fmt.Errorf("%w: redis backend needs redis_addr and namespace", ErrInvalidLock)
		}
		if c.Lock.TTL <= 0 || c.Lock.Retry <= 0 {
			return fmt.Errorf("%w: ttl and retry must be positive", ErrInvalidLock)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLockBackend, c.Lock.Backend)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return l, nil
}

// NewLogger builds the slog logger described by the config.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// NewAllocator builds the position allocator. A positive jitter spread
// draws interior digits from math/rand.
func (c *Config) NewAllocator() *fracdex.Allocator {
	opts := []fracdex.Option{
		fracdex.WithMaxKeyLength(c.Allocator.MaxKeyLength),
		fracdex.WithMaxBatch(c.Allocator.MaxBatch),
	}
	if c.Allocator.JitterSpread > 0 {
		opts = append(opts, fracdex.WithJitter(fracdex.RandJitter{}, c.Allocator.JitterSpread))
	}
	return fracdex.New(opts...)
}

// NewLocker builds the sibling-set locker. The returned close func releases
// any connection it holds.
func (c *Config) NewLocker() (siblinglock.Locker, func() error, error) {
	if c.Lock.Backend != LockRedis {
		return siblinglock.NewLocal(), func() error { return nil }, nil
	}
	l, err := siblinglock.NewRedis(&redis.Options{Addr: c.Lock.RedisAddr}, c.Lock.Namespace,
		siblinglock.WithTTL(c.Lock.TTL), siblinglock.WithRetry(c.Lock.Retry))
	if err != nil {
		return nil, nil, fmt.Errorf("create redis locker: %w", err)
	}
	return l, l.Close, nil
}
