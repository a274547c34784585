// Package config loads settings for the knapsack CLI and HTTP service.
//
// Sources are layered with viper, lowest precedence first: built-in defaults,
// an optional YAML file, KNAPSACK_* environment variables, and finally any
// command-line flags that were explicitly set.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/knapsack/knapsack"
	"github.com/katalvlaran/knapsack/logging"
)

// EnvPrefix prefixes every environment override, e.g. KNAPSACK_SERVER_ADDR.
const EnvPrefix = "KNAPSACK"

// Keys shared by viper, flags and the YAML file.
const (
	KeyAlgo           = "algo"
	KeyTimeLimit      = "time-limit"
	KeyNodeLimit      = "node-limit"
	KeyLogLevel       = "log-level"
	KeyDevelopment    = "development"
	KeyAddr           = "server.addr"
	KeyReadTimeout    = "server.read-timeout"
	KeyWriteTimeout   = "server.write-timeout"
	KeyIdleTimeout    = "server.idle-timeout"
	KeyMaxBodyBytes   = "server.max-body-bytes"
	KeyCacheSize      = "server.cache-size"
	KeyCacheTTL       = "server.cache-ttl"
	KeyRequestTimeout = "server.request-time-limit"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Server holds the HTTP service settings.
type Server struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
	// CacheSize bounds the response cache; 0 disables it.
	CacheSize int
	CacheTTL  time.Duration
	// RequestTimeLimit caps the TimeLimit a single API request may use.
	RequestTimeLimit time.Duration
}

// Config is the resolved configuration.
type Config struct {
	Algo        string
	TimeLimit   time.Duration
	NodeLimit   int
	LogLevel    string
	Development bool
	Server      Server
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Algo:     knapsack.BranchAndBound.String(),
		LogLevel: "info",
		Server: Server{
			Addr:             ":8080",
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			MaxBodyBytes:     1 << 20,
			CacheSize:        256,
			CacheTTL:         10 * time.Minute,
			RequestTimeLimit: 30 * time.Second,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyAlgo, d.Algo)
	v.SetDefault(KeyTimeLimit, d.TimeLimit)
	v.SetDefault(KeyNodeLimit, d.NodeLimit)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyDevelopment, d.Development)
	v.SetDefault(KeyAddr, d.Server.Addr)
	v.SetDefault(KeyReadTimeout, d.Server.ReadTimeout)
	v.SetDefault(KeyWriteTimeout, d.Server.WriteTimeout)
	v.SetDefault(KeyIdleTimeout, d.Server.IdleTimeout)
	v.SetDefault(KeyMaxBodyBytes, d.Server.MaxBodyBytes)
	v.SetDefault(KeyCacheSize, d.Server.CacheSize)
	v.SetDefault(KeyCacheTTL, d.Server.CacheTTL)
	v.SetDefault(KeyRequestTimeout, d.Server.RequestTimeLimit)
}

// Load resolves the configuration. path may be empty. flags may be nil;
// otherwise every flag whose name matches a key is bound, and only flags the
// user actually set override lower layers.
//
// Example:
//
//	fs := pflag.NewFlagSet("knapsackd", pflag.ContinueOnError)
//	fs.String("addr", "", "listen address")
//	_ = fs.Parse(os.Args[1:])
//	cfg, err := config.Load("", fs)
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := keyForFlag(f.Name)
			if bindErr != nil || !ok {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", bindErr)
		}
	}

	cfg := Config{
		Algo:        v.GetString(KeyAlgo),
		TimeLimit:   v.GetDuration(KeyTimeLimit),
		NodeLimit:   v.GetInt(KeyNodeLimit),
		LogLevel:    v.GetString(KeyLogLevel),
		Development: v.GetBool(KeyDevelopment),
		Server: Server{
			Addr:             v.GetString(KeyAddr),
			ReadTimeout:      v.GetDuration(KeyReadTimeout),
			WriteTimeout:     v.GetDuration(KeyWriteTimeout),
			IdleTimeout:      v.GetDuration(KeyIdleTimeout),
			MaxBodyBytes:     v.GetInt64(KeyMaxBodyBytes),
			CacheSize:        v.GetInt(KeyCacheSize),
			CacheTTL:         v.GetDuration(KeyCacheTTL),
			RequestTimeLimit: v.GetDuration(KeyRequestTimeout),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// keyForFlag maps a flag name to its key. Server keys may also be set by
// their short form, so --addr binds server.addr.
func keyForFlag(name string) (string, bool) {
	switch name {
	case KeyAlgo, KeyTimeLimit, KeyNodeLimit, KeyLogLevel, KeyDevelopment,
		KeyAddr, KeyReadTimeout, KeyWriteTimeout, KeyIdleTimeout,
		KeyMaxBodyBytes, KeyCacheSize, KeyCacheTTL, KeyRequestTimeout:
		return name, true
	}
	if !strings.HasPrefix(name, "server.") {
		return keyForFlag("server." + name)
	}

	return "", false
}

// Validate reports the first invalid field, wrapped in ErrInvalid.
func (c Config) Validate() error {
	if _, err := knapsack.ParseAlgorithm(c.Algo); err != nil {
		return fmt.Errorf("%w: algo %q", ErrInvalid, c.Algo)
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("%w: time-limit must be non-negative", ErrInvalid)
	}
	if c.NodeLimit < 0 {
		return fmt.Errorf("%w: node-limit must be non-negative", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s := c.Server
	if s.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must be non-negative", ErrInvalid)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max-body-bytes must be positive", ErrInvalid)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("%w: server.cache-size must be non-negative", ErrInvalid)
	}
	if s.CacheTTL < 0 || s.RequestTimeLimit < 0 {
		return fmt.Errorf("%w: server durations must be non-negative", ErrInvalid)
	}

	return nil
}

// SolveOptions converts the solver settings into knapsack.Options.
func (c Config) SolveOptions(logger logr.Logger) (knapsack.Options, error) {
	algo, err := knapsack.ParseAlgorithm(c.Algo)
	if err != nil {
		return knapsack.Options{}, fmt.Errorf("%w: algo %q", ErrInvalid, c.Algo)
	}

	return knapsack.DefaultOptions(
		knapsack.WithAlgorithm(algo),
		knapsack.WithTimeLimit(c.TimeLimit),
		knapsack.WithNodeLimit(c.NodeLimit),
		knapsack.WithLogger(logger),
	), nil
}
