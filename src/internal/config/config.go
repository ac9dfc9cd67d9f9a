package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/api-sage/smartbank-demo/src/internal/logger"
)

const defaultPort = "3000"
const defaultChannelID = "SmartBankApp"
const defaultChannelKey = "SmartBankKey001"
const defaultBankName = "SmartBank A"
const defaultSeedPin = "123456"

type Config struct {
	Port           string
	DatabaseDSN    string
	MigrationsDir  string
	ChannelID      string
	ChannelKey     string
	BankName       string
	SeedPin        string
	UseMemoryStore bool
}

// Load reads an optional .env file and assembles the configuration from
// the environment. DATABASE_DSN wins wholesale; otherwise the DSN is
// composed from the discrete POSTGRES_* variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables", nil)
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		dsn = composeDSN()
	}

	return Config{
		Port:           envOrDefault("PORT", defaultPort),
		DatabaseDSN:    dsn,
		MigrationsDir:  envOrDefault("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		ChannelID:      envOrDefault("CHANNEL_ID", defaultChannelID),
		ChannelKey:     envOrDefault("CHANNEL_KEY", defaultChannelKey),
		BankName:       envOrDefault("BANK_NAME", defaultBankName),
		SeedPin:        envOrDefault("SEED_PIN", defaultSeedPin),
		UseMemoryStore: envBool("USE_MEMORY_STORE"),
	}, nil
}

func composeDSN() string {
	host := envOrDefault("POSTGRES_HOST", "localhost")
	port := envOrDefault("POSTGRES_PORT", "5432")
	user := envOrDefault("POSTGRES_USER", "postgres")
	password := strings.TrimSpace(os.Getenv("POSTGRES_PASSWORD"))
	database := envOrDefault("POSTGRES_DATABASE", "smartbank_a")

	parts := []string{
		"host=" + host,
		"port=" + port,
		"user=" + user,
		"dbname=" + database,
		"sslmode=" + envOrDefault("POSTGRES_SSLMODE", "disable"),
	}
	if password != "" {
		parts = append(parts, "password="+password)
	}

	return strings.Join(parts, " ")
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}
