package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the server configuration
type Config struct {
	Environment       string
	HTTPPort          string
	LogLevel          string
	Database          DatabaseConfig
	Redis             RedisConfig
	AttendanceBackend string
	SeedDefaults      bool
	CORSOrigins       []string
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Environment: env,
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			Username:     getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "prayer_attendance"),
			SSLMode:      getEnv("DB_SSLMODE", getSSLMode(env)),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Key:      getEnv("REDIS_ATTENDANCE_KEY", "prayer_attendance"),
		},
		AttendanceBackend: strings.ToLower(getEnv("ATTENDANCE_BACKEND", BackendRedis)),
		SeedDefaults:      getEnvAsBool("SEED_DEFAULT_CLASSES", true),
		CORSOrigins:       parseList(getEnv("CORS_ORIGINS", "*")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	if c.HTTPPort == "" {
		problems = append(problems, "HTTP_PORT must not be empty")
	}
	if c.Database.Name == "" {
		problems = append(problems, "DB_NAME is required")
	}
	if c.Database.Password == "" && c.IsProduction() {
		problems = append(problems, "DB_PASSWORD is required in production")
	}
	if c.Database.MaxOpenConns <= 0 {
		problems = append(problems, "DB_MAX_OPEN_CONNS must be positive")
	}
	if len(c.CORSOrigins) == 0 {
		problems = append(problems, `CORS_ORIGINS must list at least one origin or "*"`)
	}
	switch c.AttendanceBackend {
	case BackendRedis:
		if c.Redis.Addr == "" {
			problems = append(problems, "REDIS_ADDR is required for the redis backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("ATTENDANCE_BACKEND must be %q or %q", BackendRedis, BackendMemory))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, ", "))
	}
	return nil
}

func getSSLMode(env string) string {
	if env == "production" {
		return "require"
	}
	return "disable"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return fallback
}

// parseList splits a comma separated value, dropping empty items
func parseList(s string) []string {
	result := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
