package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds every environment-derived setting. It is parsed once at
// startup and handed to constructors; nothing else reads the environment.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        string `env:"PORT" envDefault:"3000"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	SDAPIURL          string        `env:"SD_API_URL" envDefault:"http://localhost:7860"`
	ExternalAPIURL    string        `env:"EXTERNAL_API_URL"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"90s"`

	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"uploads"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`

	Redis RedisConfig `envPrefix:"REDIS_"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
