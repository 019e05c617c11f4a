// Package config loads application settings from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting the process consumes at start.
type Config struct {
	MongoURI       string   `env:"MONGO_CONNECTION_STRING" env-required:"true"`
	MongoDBName    string   `env:"MONGO_DB_NAME" env-default:"bienestar"`
	AppName        string   `env:"APP_NAME" env-default:"API de Gestion de Eventos"`
	AppVersion     string   `env:"APP_VERSION" env-default:"1.0.0"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-default:"*"`
	HTTPPort       string   `env:"HTTP_PORT" env-default:"8080"`
	LogLevel       string   `env:"LOG_LEVEL" env-default:"info"`
	LogFormat      string   `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}
