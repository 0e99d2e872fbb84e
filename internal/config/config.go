package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Session  SessionConfig
	Admin    AdminConfig
	Search   SearchConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// UpstreamConfig points at the matrimony REST API this front end calls.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled reports whether a Redis session store was configured. Without
// one, sessions fall back to the in-process store.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

type SessionConfig struct {
	TTL           time.Duration
	SecureCookies bool
}

type AdminConfig struct {
	Email        string
	PasswordHash string
	JWTSecret    string
	SessionTTL   time.Duration
}

type SearchConfig struct {
	PageSize int
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("UPSTREAM_TIMEOUT_SEC", 10)
	viper.SetDefault("SESSION_TTL_HOURS", 72)
	viper.SetDefault("ADMIN_SESSION_TTL_MIN", 60)
	viper.SetDefault("SEARCH_PAGE_SIZE", 12)

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL: viper.GetString("UPSTREAM_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("UPSTREAM_TIMEOUT_SEC")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			TTL:           time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
			SecureCookies: viper.GetBool("COOKIE_SECURE"),
		},
		Admin: AdminConfig{
			Email:        viper.GetString("ADMIN_EMAIL"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
			JWTSecret:    viper.GetString("ADMIN_JWT_SECRET"),
			SessionTTL:   time.Duration(viper.GetInt("ADMIN_SESSION_TTL_MIN")) * time.Minute,
		},
		Search: SearchConfig{
			PageSize: viper.GetInt("SEARCH_PAGE_SIZE"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL is required")
	}
	if c.Admin.Email == "" {
		return fmt.Errorf("admin email is required")
	}
	if c.Admin.PasswordHash == "" {
		return fmt.Errorf("admin password hash is required")
	}
	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("admin JWT secret is required")
	}
	if len(c.Admin.JWTSecret) < 32 {
		return fmt.Errorf("admin JWT secret must be at least 32 characters")
	}
	return nil
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
