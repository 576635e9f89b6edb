package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

type Config struct {
	AppPort               int           `mapstructure:"APP_PORT"`
	StoreDriver           string        `mapstructure:"STORE_DRIVER"`
	DatabasePath          string        `mapstructure:"DATABASE_PATH"`
	BoltPath              string        `mapstructure:"BOLT_PATH"`
	RedisAddr             string        `mapstructure:"REDIS_ADDR"`
	RedisKeyPrefix        string        `mapstructure:"REDIS_KEY_PREFIX"`
	APIURL                string        `mapstructure:"API_URL"`
	DefaultModel          string        `mapstructure:"DEFAULT_MODEL"`
	DefaultEmbeddingModel string        `mapstructure:"DEFAULT_EMBEDDING_MODEL"`
	RequestTimeout        time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	IngestConcurrency     int           `mapstructure:"INGEST_CONCURRENCY"`
	MaxFileSizeMB         int           `mapstructure:"MAX_FILE_SIZE_MB"`
	AllowedOrigins        string        `mapstructure:"ALLOWED_ORIGINS"`
	FrontendDir           string        `mapstructure:"FRONTEND_DIR"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 3000)
	viper.SetDefault("STORE_DRIVER", StoreSQLite)
	viper.SetDefault("DATABASE_PATH", "./data/allma.db")
	viper.SetDefault("BOLT_PATH", "./data/allma.bolt")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_KEY_PREFIX", "allma:")
	viper.SetDefault("API_URL", "http://localhost:8000")
	viper.SetDefault("DEFAULT_MODEL", "llama3.2")
	viper.SetDefault("DEFAULT_EMBEDDING_MODEL", "nomic-embed-text")
	viper.SetDefault("REQUEST_TIMEOUT", "0s")
	viper.SetDefault("INGEST_CONCURRENCY", 4)
	viper.SetDefault("MAX_FILE_SIZE_MB", 50)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("FRONTEND_DIR", "./frontend/dist")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the fields the application cannot start without.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH cannot be empty when STORE_DRIVER=%s", StoreSQLite)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty when STORE_DRIVER=%s", StoreRedis)
		}
	case StoreBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH cannot be empty when STORE_DRIVER=%s", StoreBolt)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.APIURL == "" {
		return fmt.Errorf("API_URL cannot be empty")
	}
	if c.IngestConcurrency <= 0 {
		return fmt.Errorf("INGEST_CONCURRENCY must be > 0")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be > 0")
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
