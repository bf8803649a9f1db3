package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port      string
	AuthToken string

	StoreDriver   string
	DataDir       string
	CatalogName   string
	CustomersName string
	LoadOnStart   bool
	SaveOnExit    bool

	DBURL             string
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisTimeoutSecs int

	MetadataURL         string
	MetadataAPIKey      string
	MetadataTimeoutSecs int

	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		AuthToken:           os.Getenv("AUTH_TOKEN"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
		DataDir:             getEnv("DATA_DIR", "data"),
		CatalogName:         getEnv("CATALOG_NAME", "catalog.json"),
		CustomersName:       getEnv("CUSTOMERS_NAME", "customers.json"),
		LoadOnStart:         getEnvBool("LOAD_ON_START", true),
		SaveOnExit:          getEnvBool("SAVE_ON_EXIT", true),
		DBURL:               os.Getenv("DB_URL"),
		DBMaxConns:          getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:          getEnvInt("DB_MIN_CONNS", 1),
		DBMaxIdleSecs:       getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:       getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs:   getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:    getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisTimeoutSecs:    getEnvInt("REDIS_TIMEOUT_SECS", 5),
		MetadataURL:         os.Getenv("METADATA_URL"),
		MetadataAPIKey:      os.Getenv("METADATA_API_KEY"),
		MetadataTimeoutSecs: getEnvInt("METADATA_TIMEOUT_SECS", 5),
		ReadTimeoutSecs:     getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:    getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:     getEnvInt("SERVER_IDLE_TIMEOUT", 60),
	}

	if cfg.AuthToken == "" {
		return Config{}, fmt.Errorf("AUTH_TOKEN is required")
	}
	switch cfg.StoreDriver {
	case DriverFile:
		if strings.TrimSpace(cfg.DataDir) == "" {
			return Config{}, fmt.Errorf("DATA_DIR is required for the file store")
		}
	case DriverPostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
		}
		if cfg.DBMaxConns <= 0 {
			return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if cfg.DBMinConns < 0 {
			return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
		}
		if cfg.DBMinConns > cfg.DBMaxConns {
			return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
		}
		if cfg.DBStatementCache < 0 {
			return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
		}
	case DriverRedis:
		if cfg.RedisDB < 0 {
			return Config{}, fmt.Errorf("REDIS_DB must be non-negative")
		}
		if cfg.RedisTimeoutSecs <= 0 {
			return Config{}, fmt.Errorf("REDIS_TIMEOUT_SECS must be positive")
		}
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be one of %q, %q, %q; got %q",
			DriverFile, DriverPostgres, DriverRedis, cfg.StoreDriver)
	}
	if cfg.CatalogName == cfg.CustomersName {
		return Config{}, fmt.Errorf("CATALOG_NAME and CUSTOMERS_NAME must differ")
	}
	if cfg.MetadataURL != "" && cfg.MetadataTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("METADATA_TIMEOUT_SECS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
