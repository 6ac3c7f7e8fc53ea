package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// namespace prefixes every variable (CREW_DB_HOST). The unprefixed name is
// accepted as a fallback, so DB_HOST works too.
const namespace = "CREW"

type Config struct {
	DBDriver      string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost        string `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string `envconfig:"DB_PORT" default:"3306"`
	DBUser        string `envconfig:"DB_USER" default:"crewuser"`
	DBPassword    string `envconfig:"DB_PASSWORD" default:"crewpassword"`
	DBName        string `envconfig:"DB_NAME" default:"crew_scheduling"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	SessionSecret string `envconfig:"SESSION_SECRET" default:"default-secret-key-change-me"`
	GinMode       string `envconfig:"GIN_MODE" default:"debug"`

	HTTPAddr       string   `envconfig:"HTTP_ADDR" default:":8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// StoreBaseURL points the assignment coordinator at a remote task store.
	// Empty means the in-process store backed by this service's database.
	StoreBaseURL string        `envconfig:"STORE_BASE_URL"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"20s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(namespace, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.DBDriver {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want mysql or postgres)", cfg.DBDriver)
	}
	if cfg.StoreTimeout <= 0 {
		return nil, fmt.Errorf("STORE_TIMEOUT must be positive, got %s", cfg.StoreTimeout)
	}

	return &cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// RedisAddr joins the Redis host and port.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
