package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverMySQL    = "mysql"
	DBDriverPostgres = "postgres"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string   `envconfig:"SERVER_PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	SwaggerHost string   `envconfig:"SWAGGER_HOST"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"harvesthub.db"`
	MySQLDSN    string `envconfig:"MYSQL_DSN" default:"user:password@tcp(localhost:3306)/harvesthub?charset=utf8mb4&parseTime=True&loc=UTC"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:"host=localhost user=postgres password=postgres dbname=harvesthub port=5432 sslmode=disable"`
	ResetDB     bool   `envconfig:"RESET_DB" default:"false"`

	// An empty RedisAddr disables the user cache.
	RedisAddr string `envconfig:"REDIS_ADDR"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"supersecretkey"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"local"`
	UploadDir     string `envconfig:"UPLOAD_DIR" default:"uploads"`
	S3Bucket      string `envconfig:"S3_BUCKET"`
	S3Region      string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint    string `envconfig:"S3_ENDPOINT"`
	S3AccessKey   string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey   string `envconfig:"S3_SECRET_KEY"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads an optional .env file and builds Config from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DBDriverSQLite, DBDriverMySQL, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
