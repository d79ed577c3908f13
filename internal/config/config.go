// Package config loads application settings through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	AppPort string

	DBDriver    string
	DatabaseDSN string

	JWTSecret     string
	TokenTTL      time.Duration
	AdminPassword string
	UserPassword  string

	RabbitMQURL     string
	RabbitMQConsume bool

	LogLevel  string
	LogFormat string
}

// NewViper returns a viper instance with every default registered and
// environment variables enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "qa_practice.db")
	v.SetDefault("JWT_SECRET", "qa-practice-secret-key")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("ADMIN_PASSWORD", "admin_password")
	v.SetDefault("USER_PASSWORD", "user_password")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_CONSUME", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()
	return v
}

// Load reads configuration from v, including the optional config file named by CONFIG_FILE.
func Load(v *viper.Viper) (*Config, error) {
	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		UserPassword:    v.GetString("USER_PASSWORD"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQConsume: v.GetBool("RABBITMQ_CONSUME"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for driver %s", c.DBDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
