package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	platformpostgres "github.com/Apurer/go-gin-users-api/internal/platform/postgres"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string        `env:"PORT" envDefault:"3000" validate:"required,numeric"`
	ServiceName        string        `env:"SERVICE_NAME" envDefault:"users-api" validate:"required"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info" validate:"loglevel"`
	GinMode            string        `env:"GIN_MODE" validate:"omitempty,oneof=debug release test"`
	PostgresDSN        string        `env:"POSTGRES_DSN"`
	PostgresDriver     string        `env:"POSTGRES_DRIVER" envDefault:"pgx" validate:"oneof=pgx pq"`
	DBHost             string        `env:"DB_HOST"`
	DBPort             int           `env:"DB_PORT" envDefault:"5432" validate:"min=1,max=65535"`
	DBName             string        `env:"DB_NAME" validate:"required_with=DBHost"`
	DBUser             string        `env:"DB_USER" validate:"required_with=DBHost"`
	DBPassword         string        `env:"DB_PASSWORD"`
	DBSSLMode          string        `env:"DB_SSLMODE" envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBConnectTimeout   time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	UploadDir          string        `env:"UPLOAD_DIR" envDefault:"uploads" validate:"required"`
	MaxMultipartMemory int64         `env:"MAX_MULTIPART_MEMORY_MB" envDefault:"8" validate:"min=1"`
}

// LoadConfig reads an optional .env file and the environment, applies defaults, and validates.
func LoadConfig() (Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	cfg.DBHost = strings.TrimSpace(cfg.DBHost)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DSN returns POSTGRES_DSN when set, otherwise one assembled from the DB_* parts.
// An empty result means no database is configured.
func (c Config) DSN() string {
	if c.PostgresDSN != "" {
		return c.PostgresDSN
	}
	if c.DBHost == "" {
		return ""
	}
	return platformpostgres.BuildDSN(c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode)
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// MultipartMemoryBytes converts the configured megabytes for gin.
func (c Config) MultipartMemoryBytes() int64 {
	return c.MaxMultipartMemory << 20
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowed := map[string]bool{
		"debug":   true,
		"info":    true,
		"warn":    true,
		"warning": true,
		"error":   true,
	}
	return allowed[strings.ToLower(fieldLevel.Field().String())]
}
