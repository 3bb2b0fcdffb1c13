package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Backends soportados para el Session Store.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
	StoreBackendMemory   = "memory"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort     string `env:"HTTP_PORT" envDefault:"5000"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`
	DatabaseURL  string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"genchat:"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAITextModel  string `env:"OPENAI_TEXT_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIImageModel string `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`

	PollinationsTextURL  string `env:"POLLINATIONS_TEXT_URL" envDefault:"https://text.pollinations.ai"`
	PollinationsImageURL string `env:"POLLINATIONS_IMAGE_URL" envDefault:"https://image.pollinations.ai"`

	TextTimeout  time.Duration `env:"TEXT_TIMEOUT" envDefault:"30s"`
	ImageTimeout time.Duration `env:"IMAGE_TIMEOUT" envDefault:"120s"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa los requisitos que dependen del backend elegido.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for postgres store")
		}
	case StoreBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for redis store")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.TextTimeout <= 0 || c.ImageTimeout <= 0 || c.StoreTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

// OpenAIEnabled indica si se registra el proveedor primario.
func (c *Config) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}
