// Package config provides application configuration loading and management.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"quill/internal/models"
)

// Config holds connection settings for both storage engines, loaded once
// before connecting and injected into adapter construction.
type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// LoadConfig loads configuration from an optional config.yml and the
// environment. Environment variables win over file values.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "quill")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "quill")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, models.NewConfigurationError(fmt.Sprintf("unable to decode config: %v", err))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate ensures that required connection parameters are present.
func (c *Config) Validate() error {
	if c.DBHost == "" {
		return models.NewConfigurationError("DB_HOST is required")
	}
	if c.DBUser == "" {
		return models.NewConfigurationError("DB_USER is required")
	}
	if c.DBName == "" {
		return models.NewConfigurationError("DB_NAME is required")
	}
	if c.MongoURI == "" {
		return models.NewConfigurationError("MONGO_URI is required")
	}
	if c.MongoDB == "" {
		return models.NewConfigurationError("MONGO_DB is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction && (c.DBPassword == "password" || c.DBPassword == "") {
		return models.NewConfigurationError("a strong DB_PASSWORD is required in production")
	}

	return nil
}

// IsProduction reports whether the config targets a production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// PostgresDSN builds the relational engine connection string.
func (c *Config) PostgresDSN() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}
