package configs

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	StoreTypeFile     = "file"
	StoreTypeDatabase = "database"
)

const (
	DatabaseTypePostgresql = "psql"
	DatabaseTypeMysql      = "mysql"
	DatabaseTypeSqlite     = "sqlite"
)

type Config struct {
	// -- Server --

	Host string `env:"STICKERBOARD_HOST"`
	// Port follows the hosting platform convention of a bare PORT variable.
	Port     int    `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"STICKERBOARD_LOG_LEVEL" envDefault:"info"`

	// Maximum time a single request may take
	ServerRequestTimeout time.Duration `env:"STICKERBOARD_SERVER_REQUEST_TIMEOUT" envDefault:"60s"`

	// -- Storage --

	// Where the board document is kept, "file" or "database"
	StoreType string `env:"STICKERBOARD_STORE_TYPE" envDefault:"file"`
	DataFile  string `env:"STICKERBOARD_DATA_FILE" envDefault:"data.json"`

	DatabaseDSN            string        `env:"STICKERBOARD_DATABASE_DSN" envDefault:"stickerboard.db"`
	DatabaseType           string        `env:"STICKERBOARD_DATABASE_TYPE" envDefault:"sqlite"`
	DatabaseConnectTimeout time.Duration `env:"STICKERBOARD_DATABASE_CONNECT_TIMEOUT" envDefault:"30s"`

	// -- Writer --

	WriterQueueCapacity uint `env:"STICKERBOARD_WRITER_QUEUE_CAPACITY" envDefault:"1000"`
	// Document mutations per second, 0 means unlimited
	MaxWriteRate int `env:"STICKERBOARD_MAX_WRITE_RATE" envDefault:"0"`

	// -- Idempotency middleware --

	DisableIdempotencyMiddleware      bool   `env:"STICKERBOARD_DISABLE_IDEMPOTENCY_MIDDLEWARE" envDefault:"true"`
	IdempotencyMiddlewareDatabaseType string `env:"STICKERBOARD_IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE" envDefault:"local"`
	IdempotencyMiddlewareRedisURL     string `env:"STICKERBOARD_IDEMPOTENCY_MIDDLEWARE_REDIS_URL"`

	// -- Tracing --

	// Tracing is enabled when a Google Cloud project is given
	TracingProjectID   string  `env:"STICKERBOARD_TRACING_PROJECT_ID"`
	TracingSampleRatio float64 `env:"STICKERBOARD_TRACING_SAMPLE_RATIO" envDefault:"0.1"`
}

type Options struct {
	EnvFilePath string
}

// Parse parses environment variables into a valid Config.
func Parse() (*Config, error) {
	return ParseConfig(nil)
}

// ParseConfig loads an optional env file and then parses environment
// variables into a valid Config. Variables already set in the environment
// take precedence over the file.
func ParseConfig(opt *Options) (*Config, error) {
	if opt != nil && opt.EnvFilePath != "" {
		log.WithFields(log.Fields{"path": opt.EnvFilePath}).Info("Loading environment from file")
		if err := godotenv.Load(opt.EnvFilePath); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}

	switch cfg.StoreType {
	case StoreTypeFile:
		if cfg.DataFile == "" {
			return fmt.Errorf("store type '%s' requires a data file", cfg.StoreType)
		}
	case StoreTypeDatabase:
		switch cfg.DatabaseType {
		case DatabaseTypePostgresql, DatabaseTypeMysql, DatabaseTypeSqlite:
		default:
			return fmt.Errorf("database type '%s' not supported", cfg.DatabaseType)
		}
	default:
		return fmt.Errorf("store type '%s' not supported", cfg.StoreType)
	}

	if cfg.WriterQueueCapacity == 0 {
		return fmt.Errorf("writer queue capacity must be positive")
	}

	if cfg.MaxWriteRate < 0 {
		return fmt.Errorf("invalid max write rate %d", cfg.MaxWriteRate)
	}

	switch cfg.IdempotencyMiddlewareDatabaseType {
	case "local", "shared", "redis":
	default:
		return fmt.Errorf("idempotency middleware database type '%s' not supported", cfg.IdempotencyMiddlewareDatabaseType)
	}

	return nil
}

func ConfigureLogger(logLevel string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		log.
			WithFields(log.Fields{"level": logLevel}).
			Warn("Unknown log level, falling back to info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
