package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultPort is the port the HTTP listener binds when none is configured.
const DefaultPort = 7780

const (
	defaultHost            = "0.0.0.0"
	defaultMaxBodyBytes    = 32 << 20
	defaultSweepInterval   = time.Minute
	defaultShutdownTimeout = 10 * time.Second
)

// StoreConfig selects and parameterizes the persistence backend.
type StoreConfig struct {
	Backend string
	Path    string
}

// RateLimitConfig controls the per-client request limiter.
type RateLimitConfig struct {
	Enabled   bool
	PerSecond float64
	Burst     int
	CacheSize int
}

// Config contains the server configuration.
type Config struct {
	Host            string
	Port            int
	LogLevel        uint32
	LogRequests     bool
	CORSOrigins     []string
	MaxBodyBytes    int64
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
	Store           StoreConfig
	RateLimit       RateLimitConfig
}

// NewDefaultConfig creates a Config with default settings.
func NewDefaultConfig() *Config {
	return &Config{
		Host:            defaultHost,
		Port:            DefaultPort,
		LogLevel:        uint32(logrus.InfoLevel),
		MaxBodyBytes:    defaultMaxBodyBytes,
		SweepInterval:   defaultSweepInterval,
		ShutdownTimeout: defaultShutdownTimeout,
		Store:           StoreConfig{Backend: "memory"},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			PerSecond: 10,
			Burst:     20,
			CacheSize: 4096,
		},
	}
}

// GetListenAddress returns the address the HTTP listener should bind.
func (c *Config) GetListenAddress() string {
	host := c.Host
	if host == "" {
		host = defaultHost
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// knownSettings are the recognized configuration file keys. Anything else
// in a config file is rejected so typos fail loudly instead of silently
// falling back to defaults.
var knownSettings = map[string]struct{}{
	"host":              {},
	"port":              {},
	"log.level":         {},
	"log.requests":      {},
	"cors.origins":      {},
	"max.body.bytes":    {},
	"sweep.interval":    {},
	"shutdown.timeout":  {},
	"store.backend":     {},
	"store.path":        {},
	"ratelimit.enabled": {},
	"ratelimit.rate":    {},
	"ratelimit.burst":   {},
	"ratelimit.cache":   {},
}

// NewConfig creates a Config from defaults, an optional YAML file and
// HUSHBOX_-prefixed environment variables. Environment variables use
// underscores where keys use dots, e.g. HUSHBOX_LOG_LEVEL. An explicitly
// given config file that cannot be read is an error.
func NewConfig(configFile string) (*Config, error) {
	config := NewDefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("hushbox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		for _, key := range v.AllKeys() {
			if _, ok := knownSettings[key]; !ok {
				return nil, fmt.Errorf("unknown setting %q in config file", key)
			}
		}
	}

	if v.IsSet("host") {
		config.Host = v.GetString("host")
	}
	if v.IsSet("port") {
		config.Port = v.GetInt("port")
	}
	if v.IsSet("log.level") {
		level, err := GetLogLevel(v.GetString("log.level"))
		if err != nil {
			return nil, err
		}
		config.LogLevel = level
	}
	if v.IsSet("log.requests") {
		config.LogRequests = v.GetBool("log.requests")
	}
	if v.IsSet("cors.origins") {
		config.CORSOrigins = v.GetStringSlice("cors.origins")
	}
	if v.IsSet("max.body.bytes") {
		config.MaxBodyBytes = v.GetInt64("max.body.bytes")
	}
	if v.IsSet("sweep.interval") {
		interval, err := time.ParseDuration(v.GetString("sweep.interval"))
		if err != nil {
			return nil, errors.Wrap(err, "parse sweep.interval")
		}
		config.SweepInterval = interval
	}
	if v.IsSet("shutdown.timeout") {
		timeout, err := time.ParseDuration(v.GetString("shutdown.timeout"))
		if err != nil {
			return nil, errors.Wrap(err, "parse shutdown.timeout")
		}
		config.ShutdownTimeout = timeout
	}
	if v.IsSet("store.backend") {
		config.Store.Backend = v.GetString("store.backend")
	}
	if v.IsSet("store.path") {
		config.Store.Path = v.GetString("store.path")
	}
	if v.IsSet("ratelimit.enabled") {
		config.RateLimit.Enabled = v.GetBool("ratelimit.enabled")
	}
	if v.IsSet("ratelimit.rate") {
		config.RateLimit.PerSecond = v.GetFloat64("ratelimit.rate")
	}
	if v.IsSet("ratelimit.burst") {
		config.RateLimit.Burst = v.GetInt("ratelimit.burst")
	}
	if v.IsSet("ratelimit.cache") {
		config.RateLimit.CacheSize = v.GetInt("ratelimit.cache")
	}

	switch config.Store.Backend {
	case "memory":
	case "sqlite":
		if config.Store.Path == "" {
			return nil, errors.New("store.path is required when store.backend is sqlite")
		}
	default:
		return nil, fmt.Errorf("unknown store.backend %q", config.Store.Backend)
	}

	return config, nil
}

// GetLogLevel converts the log level name to its logrus level value.
func GetLogLevel(level string) (uint32, error) {
	switch strings.ToLower(level) {
	case "debug":
		return uint32(logrus.DebugLevel), nil
	case "info":
		return uint32(logrus.InfoLevel), nil
	case "warn":
		return uint32(logrus.WarnLevel), nil
	case "error":
		return uint32(logrus.ErrorLevel), nil
	default:
		return 0, fmt.Errorf("invalid log.level setting %q", level)
	}
}
