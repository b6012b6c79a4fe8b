package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Jobs     JobsConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI                   string
	Database              string
	ConnectTimeoutSeconds int
}

// RedisConfig holds the cache-invalidation backend configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// KafkaConfig holds the notification publish configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// JobsConfig holds background job intervals (seconds)
type JobsConfig struct {
	ClosureIntervalSeconds int
	OutboxIntervalSeconds  int
	OutboxBatchSize        int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "jueteng")
	viper.SetDefault("MongoDB.ConnectTimeoutSeconds", 10)
	viper.SetDefault("Redis.Addr", "localhost:6379")
	viper.SetDefault("Redis.DB", 0)
	viper.SetDefault("Redis.Enabled", true)
	viper.SetDefault("Kafka.Brokers", []string{"localhost:9092"})
	viper.SetDefault("Kafka.Topic", "jueteng.notifications")
	viper.SetDefault("Kafka.Enabled", false)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Jobs.ClosureIntervalSeconds", 60)
	viper.SetDefault("Jobs.OutboxIntervalSeconds", 2)
	viper.SetDefault("Jobs.OutboxBatchSize", 100)
	viper.SetDefault("LogLevel", "info")
}
