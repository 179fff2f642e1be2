package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	MutationLenient = "lenient"
	MutationStrict  = "strict"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	CORS     CORSConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string // json or console
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

// DSN renders the config as a libpq style connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type StoreConfig struct {
	Backend string
	// MutationMode decides whether update/delete of a missing id succeeds.
	MutationMode string
}

// Strict reports whether update/delete must report missing rows.
func (c StoreConfig) Strict() bool {
	return c.MutationMode == MutationStrict
}

type CORSConfig struct {
	AllowOrigins string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work the same way
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, err := getEnvInt("SERVER_READ_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getEnvInt("SERVER_WRITE_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "finance_tracker"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    int32(maxConns),
			AutoMigrate: getEnv("DB_AUTO_MIGRATE", "true") == "true",
		},
		Store: StoreConfig{
			Backend:      strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
			MutationMode: strings.ToLower(getEnv("MUTATION_MODE", MutationLenient)),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if c.Database.Host == "" {
			problems = append(problems, "database host cannot be empty when using postgres backend")
		}
		if c.Database.DBName == "" {
			problems = append(problems, "database name cannot be empty when using postgres backend")
		}
		if c.Database.MaxConns < 1 {
			problems = append(problems, fmt.Sprintf("invalid max connections %d: must be at least 1", c.Database.MaxConns))
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid store backend '%s': must be one of [%s %s]", c.Store.Backend, BackendPostgres, BackendMemory))
	}

	if c.Store.MutationMode != MutationLenient && c.Store.MutationMode != MutationStrict {
		problems = append(problems, fmt.Sprintf("invalid mutation mode '%s': must be '%s' or '%s'", c.Store.MutationMode, MutationLenient, MutationStrict))
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'json' or 'console'", c.Logger.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': must be a number", key, value)
	}
	return i, nil
}
