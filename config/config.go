package config

import (
	"os"

	"github.com/pkg/errors"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
	ServerAddr   string
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

// GetBearerToken returns the BearerToken from the config.
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

// Load retrieves configuration values from environment variables. Required
// values fail fast; SMTP settings are optional until a reset email is sent.
func Load() (*AppConfig, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	redisAddress := os.Getenv("REDIS_URL")
	if redisAddress == "" {
		return nil, errors.New("missing REDIS_URL environment variable")
	}

	bearerToken := os.Getenv("BEARER_TOKEN")
	if bearerToken == "" {
		return nil, errors.New("missing BEARER_TOKEN environment variable")
	}

	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = ":8930"
	}

	return &AppConfig{
		DBURL:        dbURL,
		RedisAddress: redisAddress,
		BearerToken:  bearerToken,
		ServerAddr:   serverAddr,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
	}, nil
}
