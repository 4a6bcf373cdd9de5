package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "default-secret"
)

type Config struct {
	Port    string
	GinMode string

	LogLevel   string
	DBLogLevel string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	CORSAllowedOrigins []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DBLogLevel:         getEnv("DB_LOG_LEVEL", "warn"),
		DBDriver:           getEnv("DB_DRIVER", DriverPostgres),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "blogcms"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		DBPath:             getEnv("DB_PATH", "data/blogcms.db"),
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		JWTIssuer:          getEnv("JWT_ISSUER", "blogcms"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "blogcms-dashboard"),
		JWTTTL:             getEnvDuration("JWT_TTL", 24*time.Hour),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ReadTimeout:        getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:        getEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DBPath, validation.When(c.DBDriver == DriverSQLite, validation.Required)),
		validation.Field(&c.DBHost, validation.When(c.DBDriver == DriverPostgres, validation.Required, is.Host)),
		validation.Field(&c.DBPort, validation.When(c.DBDriver == DriverPostgres, validation.Required, is.Port)),
		validation.Field(&c.DBName, validation.When(c.DBDriver == DriverPostgres, validation.Required)),
		validation.Field(&c.JWTSecret,
			validation.Required,
			// the built-in secret is only tolerated while developing
			validation.When(c.GinMode == "release", validation.Length(32, 0), validation.NotIn(defaultJWTSecret)),
		),
		validation.Field(&c.JWTIssuer, validation.Required),
		validation.Field(&c.JWTAudience, validation.Required),
		validation.Field(&c.JWTTTL, validation.Required, validation.Min(time.Second)),
	)
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// SQLiteDSN enables foreign keys so the post cascades behave like postgres.
func (c *Config) SQLiteDSN() string {
	return c.DBPath + "?_foreign_keys=on"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
