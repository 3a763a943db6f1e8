package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./skycast.db"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	JWT     JWTConfig     `envPrefix:"JWT_"`
	Weather WeatherConfig `envPrefix:"WEATHER_"`
}

// JWTConfig configures token signing. The signing algorithm is fixed to
// HMAC-SHA256; only the secret and lifetime are tunable.
type JWTConfig struct {
	Secret     string `env:"SECRET,required"`
	TTLMinutes int    `env:"TTL_MINUTES" envDefault:"60"`
}

// TTL returns the access token lifetime as a duration.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// WeatherConfig configures the upstream forecast service.
type WeatherConfig struct {
	APIKey  string `env:"API_KEY,required"`
	BaseURL string `env:"BASE_URL" envDefault:"http://api.weatherapi.com/v1"`
}

// Load reads configuration from the environment, after loading a .env file if
// one is present. The returned value is built once in main and handed to
// component constructors; nothing reads the environment after startup.
func Load() (*Config, error) {
	// The .env file is optional; a missing file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
