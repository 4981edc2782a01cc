package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName   string `envconfig:"DB_NAME" default:"finport"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers        []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	MarketTopic    string   `envconfig:"KAFKA_MARKET_TOPIC" default:"market-data"`
	AnalyticsTopic string   `envconfig:"KAFKA_ANALYTICS_TOPIC" default:"analytics-events"`
	GroupID        string   `envconfig:"KAFKA_GROUP_ID" default:"finport-ingest"`
}

// RedisConfig holds the price-series cache configuration. An empty Addr
// disables caching.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:""`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"REDIS_TTL" default:"5m"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}
