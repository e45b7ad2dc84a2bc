package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Console ConsoleConfig
	Station StationConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	// SessionTTL is the validity window of an issued session.
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`
	// TokenRefreshInterval controls how often a live session re-issues
	// its access token (and emits a token-refreshed event).
	TokenRefreshInterval time.Duration `env:"TOKEN_REFRESH_INTERVAL, default=55m"`
	// RequireEmailConfirmation gates sign-in on the confirmed flag of the
	// account record.
	RequireEmailConfirmation bool `env:"REQUIRE_EMAIL_CONFIRMATION, default=false"`
	// SeedAdminEmail is the break-glass operator identity: it is granted
	// admin regardless of the stored profile role, so the first
	// administrator can bootstrap the system before any profile exists.
	SeedAdminEmail string `env:"SEED_ADMIN_EMAIL, default=admin@estacion-clasificadora.com"`
}

type ConsoleConfig struct {
	// SessionCheckTimeout bounds the initial current-session lookup a
	// console performs at startup.
	SessionCheckTimeout time.Duration `env:"SESSION_CHECK_TIMEOUT, default=5s"`
	// IdleTTL is how long an untouched console is kept before its
	// controller is torn down.
	IdleTTL time.Duration `env:"CONSOLE_IDLE_TTL, default=30m"`
	// PowerBIEmbedURL is the externally hosted report shown in the BI
	// panel. Opaque to this system.
	PowerBIEmbedURL string `env:"POWERBI_EMBED_URL, default=https://app.powerbi.com/view?r=eyJrIjoiNzFjNjFiNDItODA3Yi00MjM3LThhOGItNDkxMzVjYTc0ZTUzIiwidCI6IjVmNTNiNGNlLTYzZDQtNGVlOC04OGQyLTIyZjBiMmQ0YjI3YSIsImMiOjR9"`
}

type StationConfig struct {
	// APIKey authenticates the sorting-station hardware on the ingest
	// endpoint.
	APIKey string `env:"STATION_API_KEY"`
	// IngestWorkers is the size of the ingest worker pool.
	IngestWorkers int `env:"INGEST_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=estacion_clasificadora"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
