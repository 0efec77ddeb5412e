package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Cache backend types.
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// Config holds the configuration for the vaaskel server.
type Config struct {
	// Listen is the address the server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the base URL of the server.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// LogLevel controls the log verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Session holds the session cookie configuration.
	Session *SessionConfig `yaml:"session" mapstructure:"session"`
	// Bootstrap holds the first-run seed account configuration.
	Bootstrap *BootstrapConfig `yaml:"bootstrap" mapstructure:"bootstrap"`
	// Cache holds the response cache configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the sqlite database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// SessionConfig holds the session cookie configuration.
type SessionConfig struct {
	// Key is the key used to encrypt session data.
	Key string `yaml:"key" mapstructure:"key"`
	// MaxAge is the maximum age of a session in seconds.
	MaxAge int `yaml:"max_age" mapstructure:"max_age"`
}

// BootstrapConfig holds the first-run seed account configuration.
type BootstrapConfig struct {
	// Enabled indicates whether the seed account is created when the
	// database is empty.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Username is the seed account name.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the seed account password. It is a well-known
	// placeholder and must be changed after the first login.
	Password string `yaml:"password" mapstructure:"password"`
}

// CacheConfig holds the response cache configuration.
type CacheConfig struct {
	// Type selects the cache backend ("memory" or "redis").
	Type string `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the redis server when Type is "redis".
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// TTL is the cache entry lifetime in seconds.
	TTL int `yaml:"ttl" mapstructure:"ttl"`
}

// Load reads the configuration from the specified path and returns a
// Config struct. If path is empty, default search paths are used.
// Environment variables with the VAASKEL_ prefix override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("VAASKEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vaaskel")
		v.AddConfigPath("/etc/vaaskel")
	}

	if err := v.ReadInConfig(); err != nil {
		// Defaults plus env vars are enough to run; only a broken
		// config file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3003")
	v.SetDefault("server_url", "http://localhost:3003")
	v.SetDefault("log_level", "info")

	v.SetDefault("database.path", "./data/vaaskel.db")

	v.SetDefault("session.max_age", 172800) // 48 hours

	v.SetDefault("bootstrap.enabled", true)
	v.SetDefault("bootstrap.username", "admin")
	v.SetDefault("bootstrap.password", "admin")

	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.ttl", 300)
}

func validateConfig(c *Config) error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Session == nil || c.Session.Key == "" {
		return fmt.Errorf("session key is required")
	}
	if c.Session.MaxAge <= 0 {
		return fmt.Errorf("session max age must be positive")
	}

	if c.Bootstrap != nil && c.Bootstrap.Enabled {
		if c.Bootstrap.Username == "" {
			return fmt.Errorf("bootstrap username is required when bootstrap is enabled")
		}
		if c.Bootstrap.Password == "" {
			return fmt.Errorf("bootstrap password is required when bootstrap is enabled")
		}
	}

	if c.Cache != nil {
		switch c.Cache.Type {
		case CacheTypeMemory:
		case CacheTypeRedis:
			if c.Cache.RedisURL == "" {
				return fmt.Errorf("redis URL is required when the redis cache is enabled")
			}
		default:
			return fmt.Errorf("unknown cache type %q", c.Cache.Type)
		}
	}

	return nil
}
