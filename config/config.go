package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the server.
// Tags use mapstructure for Viper unmarshalling and env variable binding.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	// JWTSecretKey has no default on purpose: a missing secret must fail
	// startup, never fall back to a known value.
	JWTSecretKey        string `mapstructure:"JWT_SECRET_KEY"`
	AccessTokenTTLMin   int    `mapstructure:"ACCESS_TOKEN_TTL_MIN"`
	RefreshTokenTTLHour int    `mapstructure:"REFRESH_TOKEN_TTL_HOUR"`

	BcryptCost   int  `mapstructure:"BCRYPT_COST"`
	CookieSecure bool `mapstructure:"COOKIE_SECURE"`
}

// AccessTokenTTL returns the configured access-token lifetime.
func (c *ServerConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMin) * time.Minute
}

// RefreshTokenTTL returns the configured refresh-token lifetime.
func (c *ServerConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLHour) * time.Hour
}

// LoadConfig reads configuration from file, environment variables, and
// defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/pitchside/")
	v.AddConfigPath("$HOME/.pitchside")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv only surfaces keys viper already knows about through
	// Unmarshal. Every other key registers itself via SetDefault below;
	// the secret has no default, so it must be bound explicitly or an
	// env-provided value never reaches the struct.
	v.MustBindEnv("JWT_SECRET_KEY")

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/pitchside_dev")
	v.SetDefault("MONGO_DB_NAME", "pitchside_dev")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("ACCESS_TOKEN_TTL_MIN", 15)
	v.SetDefault("REFRESH_TOKEN_TTL_HOUR", 168) // 7 days
	v.SetDefault("BCRYPT_COST", 0)              // 0 = bcrypt.DefaultCost
	v.SetDefault("COOKIE_SECURE", false)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, we run on defaults and env.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}
