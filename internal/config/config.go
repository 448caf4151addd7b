package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Provider  ProviderConfig
	Auth      AuthConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ProviderConfig holds configuration for the external quote provider.
// RequestInterval is the mandatory spacing between upstream requests; the
// default respects the free-tier ceiling of 5 requests per minute. An empty
// APIKey degrades every fetch to "no data" rather than failing the job.
type ProviderConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	RequestInterval time.Duration
}

// AuthConfig holds configuration for validating bearer tokens issued by the
// hosted auth backend
type AuthConfig struct {
	JWTSecret string
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled  bool
	Brokers  string
	ClientID string
	Topics   map[string]string
}

// RedisConfig holds Redis cache specific configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// SchedulerConfig holds configuration for the periodic all-symbol refresh
type SchedulerConfig struct {
	Enabled     bool
	RefreshSpec string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")

	// Provider defaults: 5 requests/minute upstream ceiling
	v.SetDefault("provider.baseURL", "https://www.alphavantage.co")
	v.SetDefault("provider.timeout", "30s")
	v.SetDefault("provider.requestInterval", "12s")

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.clientID", "market-data-service")
	v.SetDefault("kafka.topics.priceAlerts", "price-alert-events")

	// Redis cache defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.cacheTTL", "30s")

	// Scheduler defaults: every 30 minutes during US market hours, weekdays
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.refreshSpec", "0 */30 9-16 * * 1-5")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
