package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Credential store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config is the portal server configuration.
type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	AppName  string `env:"APP_NAME,  default=Payments Portal"`

	API         APIConfig
	Routes      RoutesConfig
	Credentials CredentialsConfig
	Redis       RedisConfig
}

// APIConfig points at the payments backend.
type APIConfig struct {
	BaseURL string        `env:"API_BASE,    default=http://127.0.0.1:8000/api"`
	Timeout time.Duration `env:"API_TIMEOUT, default=30s"`
}

// RoutesConfig holds the two redirect targets used by the route guards.
type RoutesConfig struct {
	LoginPath    string `env:"LOGIN_PATH,     default=/login"`
	NonAdminHome string `env:"NON_ADMIN_HOME, default=/user/home"`
	AdminHome    string `env:"ADMIN_HOME,     default=/admin/upload"`
}

// CredentialsConfig selects where the session credential is persisted.
type CredentialsConfig struct {
	Store      string `env:"CREDENTIAL_STORE,  default=sqlite"`
	SQLitePath string `env:"CREDENTIAL_PATH,   default=data/portal.db"`
	KeyPrefix  string `env:"CREDENTIAL_PREFIX, default=portal:"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// DevBackendConfig configures cmd/devbackend, the local stand-in for the
// payments backend.
type DevBackendConfig struct {
	Port          string        `env:"DEV_PORT,           default=8000"`
	Env           string        `env:"ENV,                default=development"`
	LogLevel      string        `env:"LOG_LEVEL,          default=info"`
	JWTSecret     string        `env:"JWT_SECRET,         default=dev-secret"`
	TokenTTL      time.Duration `env:"DEV_TOKEN_TTL,      default=24h"`
	UserStore     string        `env:"DEV_USER_STORE,     default=memory"`
	AdminEmail    string        `env:"DEV_ADMIN_EMAIL,    default=admin@example.com"`
	AdminPassword string        `env:"DEV_ADMIN_PASSWORD, default=admin123"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=payments_portal"`
}

// IsDevelopment reports whether pretty console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads the portal configuration from the environment, after merging
// an optional .env file in the working directory.
func Load(ctx context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	switch cfg.Credentials.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("config: unknown CREDENTIAL_STORE %q", cfg.Credentials.Store)
	}
	return &cfg, nil
}

// LoadDevBackend reads the development backend configuration.
func LoadDevBackend(ctx context.Context) (*DevBackendConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	var cfg DevBackendConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read .env: %w", err)
	}
	return nil
}
