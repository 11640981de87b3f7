package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	CatalogSourceFile = "file"
	CatalogSourceDB   = "db"
)

type Config struct {
	Catalog  CatalogConfig
	DB       DBConfig
	Telegram TelegramConfig
	RabbitMQ RabbitMQConfig
	Log      LogConfig
	Currency string
}

type CatalogConfig struct {
	Source string // "file" or "db"
	Path   string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Orders   bool // record placed orders in PostgreSQL
}

type TelegramConfig struct {
	Token       string
	DefaultLang string
}

type RabbitMQConfig struct {
	URL string // empty disables order events
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	source := strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceFile))
	if source != CatalogSourceDB {
		source = CatalogSourceFile
	}

	return &Config{
		Catalog: CatalogConfig{
			Source: source,
			Path:   getEnv("CATALOG_PATH", "products.json"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "storefront"),
			Orders:   getBool("ORDERS_DB"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TOKEN", ""),
			DefaultLang: getEnv("DEFAULT_LANG", "ja"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: getEnv("RABBITMQ_URL", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Currency: getEnv("CURRENCY_SYMBOL", "¥"),
	}, nil
}

// NeedsDB reports whether any component talks to PostgreSQL.
func (c *Config) NeedsDB() bool {
	return c.DB.Orders || c.Catalog.Source == CatalogSourceDB
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}
