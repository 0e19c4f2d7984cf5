package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port    string `envconfig:"PORT" default:"8000"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`

	UpstreamURL          string `envconfig:"UPSTREAM_URL" required:"true"`
	UpstreamServiceToken string `envconfig:"UPSTREAM_SERVICE_TOKEN"` // used by integration routes

	DatabaseURL string `envconfig:"DATABASE_URL"` // postgres; sqlite at DataPath when empty
	DataPath    string `envconfig:"DATA_PATH" default:"shift_control.db"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"` // in-memory cache when empty
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RosterTTL     time.Duration `envconfig:"ROSTER_TTL" default:"30s"`

	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	APIMasterSecret string `envconfig:"API_MASTER_SECRET" required:"true"`
	AdminUsername   string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword   string `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	LogFile  string `envconfig:"LOG_FILE"`
}

// LoadDotEnv loads the first .env found in the working directory or its parents
func LoadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads .env (if any) and environment variables into Config.
func Load() (Config, error) {
	LoadDotEnv()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
