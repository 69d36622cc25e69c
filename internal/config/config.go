// Package config reads fitpal's settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lildude/fitpal/internal/cache"
)

const (
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        string
	StoreDriver string
	RedisURL    string
	DatabaseURL string
	KeyPrefix   string

	AIAPIKey    string
	AIBaseURL   string
	AIModel     string
	AIPlanModel string

	HonorHealthClientID     string
	HonorHealthClientSecret string
	HonorHealthRedirectURI  string
	HonorHealthAuthURL      string
	HonorHealthTokenURL     string
	StateToken              string

	LogLevel string
	LogFile  string
	Env      string
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Load reads the configuration from the environment after loading any
// envFiles into it. Variables already set take precedence over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("loading env files: %w", err)
		}
	}

	c := &Config{
		Port:        getenv("PORT", "8080"),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverRedis)),
		RedisURL:    getenv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		KeyPrefix:   getenv("KEY_PREFIX", cache.DefaultPrefix),

		AIAPIKey:    os.Getenv("AI_API_KEY"),
		AIBaseURL:   os.Getenv("AI_BASE_URL"),
		AIModel:     os.Getenv("AI_MODEL"),
		AIPlanModel: os.Getenv("AI_PLAN_MODEL"),

		HonorHealthClientID:     os.Getenv("HONOR_HEALTH_CLIENT_ID"),
		HonorHealthClientSecret: os.Getenv("HONOR_HEALTH_CLIENT_SECRET"),
		HonorHealthRedirectURI:  os.Getenv("HONOR_HEALTH_REDIRECT_URI"),
		HonorHealthAuthURL:      os.Getenv("HONOR_HEALTH_AUTH_URL"),
		HonorHealthTokenURL:     os.Getenv("HONOR_HEALTH_TOKEN_URL"),
		StateToken:              os.Getenv("STATE_TOKEN"),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
		Env:      getenv("ENV", "production"),
	}

	switch c.StoreDriver {
	case DriverRedis:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s driver", c.StoreDriver)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return c, nil
}
