package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Port               int           `env:"PORT" envDefault:"8080"`
	StoreBackend       string        `env:"STORE_BACKEND" envDefault:"memory"`
	Dsn                string        `env:"DSN"`
	RedisAddr          string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisPrefix        string        `env:"REDIS_PREFIX" envDefault:"viff:"`
	OpenCageAPIKey     string        `env:"OPENCAGE_API_KEY"`
	OpenCageBaseURL    string        `env:"OPENCAGE_BASE_URL" envDefault:"https://api.opencagedata.com"`
	GeocodeTimeout     time.Duration `env:"GEOCODE_TIMEOUT" envDefault:"10s"`
	GeocodeConcurrency int           `env:"GEOCODE_CONCURRENCY" envDefault:"4"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}
