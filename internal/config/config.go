package config

import (
	"os"
	"strconv"
	"time"

	"soundwell/internal/errors"
)

// Pagination defaults. The client overview keeps the narrow page the
// product expects; plain listings page wider.
const (
	OverviewLimit = 5
	ListLimit     = 10
	DefaultSkip   = 0
)

// Config represents the complete application configuration
type Config struct {
	Mongo   MongoConfig `validate:"required"`
	Server  ServerConfig
	Mail    MailConfig
	Auth0   Auth0Config
	AMQP    AMQPConfig
	Sweeper SweeperConfig
}

// MongoConfig holds record store connection settings
type MongoConfig struct {
	URI      string `validate:"required"`
	Database string `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required"`
	GinMode string
}

// MailConfig holds Mailgun settings
type MailConfig struct {
	Domain string
	APIKey string
	Sender string
}

// Auth0Config holds identity provider settings
type Auth0Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
	Connection   string
	ConnectionID string
}

// AMQPConfig holds event broker settings
type AMQPConfig struct {
	URL      string
	Exchange string
}

// SweeperConfig holds request-expiry sweeper settings
type SweeperConfig struct {
	Interval  time.Duration
	ExpireDay int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	mongoConfig, err := loadMongoConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load mongo configuration")
	}

	config := &Config{
		Mongo:   *mongoConfig,
		Server:  loadServerConfig(),
		Mail:    loadMailConfig(),
		Auth0:   loadAuth0Config(),
		AMQP:    loadAMQPConfig(),
		Sweeper: loadSweeperConfig(),
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadMongoConfig() (*MongoConfig, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, errors.ConfigInvalid("MONGO_URI is required")
	}

	return &MongoConfig{
		URI:      uri,
		Database: getEnvOrDefault("MONGO_DATABASE", "soundwell"),
	}, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "3001"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Domain: getEnvOrDefault("MAILGUN_DOMAIN", ""),
		APIKey: getEnvOrDefault("MAILGUN_API_KEY", ""),
		Sender: getEnvOrDefault("MAIL_SENDER", "Soundwell <no-reply@soundwell.app>"),
	}
}

func loadAuth0Config() Auth0Config {
	return Auth0Config{
		Domain:       getEnvOrDefault("AUTH0_DOMAIN", ""),
		ClientID:     getEnvOrDefault("AUTH0_CLIENT_ID", ""),
		ClientSecret: getEnvOrDefault("AUTH0_CLIENT_SECRET", ""),
		Connection:   getEnvOrDefault("AUTH0_CONNECTION", "Username-Password-Authentication"),
		ConnectionID: getEnvOrDefault("AUTH0_CONNECTION_ID", ""),
	}
}

func loadAMQPConfig() AMQPConfig {
	return AMQPConfig{
		URL:      getEnvOrDefault("AMQP_URL", ""),
		Exchange: getEnvOrDefault("AMQP_EXCHANGE", "soundwell.requests"),
	}
}

func loadSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:  getEnvDurationOrDefault("SWEEPER_INTERVAL", time.Minute),
		ExpireDay: getEnvIntOrDefault("REQUEST_EXPIRE_DAYS", 30),
	}
}

func validate(config *Config) error {
	if config.Mongo.URI == "" {
		return errors.ConfigInvalid("mongo URI is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Sweeper.ExpireDay <= 0 {
		return errors.ConfigInvalid("request expiry must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
