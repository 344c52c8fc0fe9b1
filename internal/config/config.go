package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Sheets      SheetsConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Configured reports whether a database backend was requested at all.
// Unlike the other knobs there is no default URL: absence means the
// postgres store is simply not constructed.
func (c DatabaseConfig) Configured() bool {
	return c.URL != ""
}

type SheetsConfig struct {
	SpreadsheetID string
	ClientEmail   string
	PrivateKey    string
}

// Configured reports whether all three credentials are present and none of
// them is a copy-pasted placeholder from a sample .env file.
func (c SheetsConfig) Configured() bool {
	for _, v := range []string{c.SpreadsheetID, c.ClientEmail, c.PrivateKey} {
		if v == "" || isPlaceholder(v) {
			return false
		}
	}
	return true
}

func isPlaceholder(v string) bool {
	lower := strings.ToLower(v)
	return strings.HasPrefix(lower, "your-") ||
		strings.HasPrefix(lower, "your_") ||
		strings.Contains(lower, "placeholder")
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
			ClientEmail:   getEnv("SHEETS_CLIENT_EMAIL", ""),
			// Keys pasted into env files usually arrive with escaped newlines.
			PrivateKey: strings.ReplaceAll(getEnv("SHEETS_PRIVATE_KEY", ""), `\n`, "\n"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		fmt.Printf("Warning: invalid duration for %s, using default\n", key)
	}
	return defaultValue
}
