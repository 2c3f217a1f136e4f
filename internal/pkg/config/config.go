package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the whole application configuration.
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Database DatabaseConfig
	Redis    RedisConfig
	GenAI    GenAIConfig
	App      AppConfig
	CORS     CORSConfig
	Logger   LoggerConfig
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SheetsConfig holds the settings for the spreadsheet web-app gateway.
type SheetsConfig struct {
	// Driver selects the gateway backend: "sheets" or "postgres".
	Driver    string
	ScriptURL string
	Timeout   time.Duration
}

// DatabaseConfig holds the PostgreSQL settings, used when the persistence
// driver is "postgres".
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the Redis connection settings used by the session store.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GenAIConfig holds the settings for the trip-notes generation service.
type GenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// ReportBaseURL is the public URL prefix encoded into report QR codes.
	ReportBaseURL string
}

// CORSConfig holds the CORS settings.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// LoggerConfig holds the logging settings.
type LoggerConfig struct {
	Level  string
	Format string // json or console
	Output string // stdout or a file path
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	// Load .env when present; a missing file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Sheets: SheetsConfig{
			Driver:    getEnv("PERSISTENCE_DRIVER", "sheets"),
			ScriptURL: getEnv("SHEETS_SCRIPT_URL", ""),
			Timeout:   getDurationEnv("SHEETS_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "armada_user"),
			Password:        getEnv("DB_PASSWORD", "armada_password"),
			Database:        getEnv("DB_NAME", "armada_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		GenAI: GenAIConfig{
			BaseURL: getEnv("GENAI_BASE_URL", "https://generativelanguage.googleapis.com"),
			APIKey:  getEnv("GENAI_API_KEY", ""),
			Model:   getEnv("GENAI_MODEL", "gemini-2.5-flash"),
			Timeout: getDurationEnv("GENAI_TIMEOUT", 30*time.Second),
		},
		App: AppConfig{
			ReportBaseURL: getEnv("APP_REPORT_BASE_URL", "http://localhost:8080"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if cfg.Sheets.Driver == "sheets" && cfg.Sheets.ScriptURL == "" {
		return nil, fmt.Errorf("SHEETS_SCRIPT_URL is required when PERSISTENCE_DRIVER=sheets")
	}

	return cfg, nil
}

// Address returns the server listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Address returns the Redis address.
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helpers for reading environment variables.

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getListEnv(key, defaultValue string) []string {
	var values []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
