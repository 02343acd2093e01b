package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Kafka      KafkaConfig
	Redis      RedisConfig
	MarketData MarketDataConfig
	Engine     EngineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers            []string
	SignalEventsTopic  string
	NotificationsTopic string
	RunRequestsTopic   string
	ConsumerGroup      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PriceTTL time.Duration
}

// MarketDataConfig holds market data service configuration
type MarketDataConfig struct {
	BaseURL string
	APIKey  string
}

// EngineConfig holds signal engine tuning
type EngineConfig struct {
	HistoryBars     int
	Interval        string
	SentimentWindow time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "signalengine"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:            strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			SignalEventsTopic:  getEnv("KAFKA_SIGNAL_EVENTS_TOPIC", "signal-events"),
			NotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "signal-notifications"),
			RunRequestsTopic:   getEnv("KAFKA_RUN_REQUESTS_TOPIC", "strategy-run-requests"),
			ConsumerGroup:      getEnv("KAFKA_CONSUMER_GROUP", "signal-engine"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PriceTTL: getEnvDuration("REDIS_PRICE_TTL", 30*time.Second),
		},
		MarketData: MarketDataConfig{
			BaseURL: getEnv("MARKET_DATA_URL", "http://localhost:8090"),
			APIKey:  getEnv("MARKET_DATA_API_KEY", ""),
		},
		Engine: EngineConfig{
			HistoryBars:     getEnvInt("ENGINE_HISTORY_BARS", 100),
			Interval:        getEnv("ENGINE_INTERVAL", "1d"),
			SentimentWindow: getEnvDuration("ENGINE_SENTIMENT_WINDOW", 24*time.Hour),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
