package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultJWTSecret = "change-me-medixra-jwt-secret"

// Store backends selectable with STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`

	StoreBackend    string `mapstructure:"STORE_BACKEND"`
	StoreMaxRetries int    `mapstructure:"STORE_MAX_RETRIES"`
	SeedOnStart     bool   `mapstructure:"SEED_ON_START"`
	SQLitePath      string `mapstructure:"SQLITE_PATH"`
	MongoURI        string `mapstructure:"MONGO_URI"`
	MongoDatabase   string `mapstructure:"MONGO_DATABASE"`

	RedisAddress    string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ListingCacheTTL time.Duration `mapstructure:"LISTING_CACHE_TTL"`

	NATSURL string `mapstructure:"NATS_URL"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        int    `mapstructure:"SMTP_PORT"`
	SMTPUsername    string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword    string `mapstructure:"SMTP_PASSWORD"`
	SMTPSenderEmail string `mapstructure:"SMTP_SENDER_EMAIL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	TaxonomyFile string `mapstructure:"TAXONOMY_FILE"`

	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "medixra")
	v.SetDefault("STORE_BACKEND", BackendSQLite)
	v.SetDefault("STORE_MAX_RETRIES", 5)
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("SQLITE_PATH", "data/medixra.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "medixra")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LISTING_CACHE_TTL", "1h")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "medixra")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER_EMAIL", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("TAXONOMY_FILE", "")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9100")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// LoadConfig reads configuration from environment variables. A .env file, if
// any, is loaded into the environment by main before this runs.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == defaultJWTSecret || cfg.JWTSecret == "" {
		appLogger.Warn("JWT_SECRET is set to its default insecure value or is empty. Please set a strong secret in your environment.")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Bool("redis_configured", cfg.RedisAddress != ""),
		zap.Bool("nats_configured", cfg.NATSURL != ""),
		zap.Bool("minio_configured", cfg.MinioEndpoint != ""),
		zap.Bool("smtp_configured", cfg.SMTPHost != ""),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
	)
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store backend")
		}
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE are required for the mongo store backend")
		}
	case BackendRedis:
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for the redis store backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want sqlite, mongo, redis or memory)", c.StoreBackend)
	}
	if c.StoreMaxRetries < 0 {
		return fmt.Errorf("STORE_MAX_RETRIES must not be negative")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}
