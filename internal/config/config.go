package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration (attachment blobs)
	MongoDB MongoDBConfig `json:"mongodb"`

	// Realtime push transport configuration
	Realtime RealtimeConfig `json:"realtime"`

	// Chat behaviour knobs
	Chat ChatConfig `json:"chat"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoDBConfig contains the attachment store connection configuration
type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// RealtimeConfig configures the push transport. The core never reads these
// fields directly; it only observes Channel.IsAvailable(), which is true when
// Addr is set.
type RealtimeConfig struct {
	Addr           string        `json:"addr"`
	Password       string        `json:"-"`
	DB             int           `json:"db"`
	PublishTimeout time.Duration `json:"publish_timeout"`
}

// Configured reports whether the push transport has everything it needs.
func (rc RealtimeConfig) Configured() bool {
	return rc.Addr != ""
}

// ChatConfig contains messaging behaviour configuration
type ChatConfig struct {
	// ConversationSalt is the application-wide secret mixed into every
	// conversation key. A storage breach alone does not disclose keys, but
	// this salt is a single point of compromise; keep it out of the store.
	ConversationSalt string        `json:"-"`
	DefaultPageSize  int           `json:"default_page_size"`
	MaxPageSize      int           `json:"max_page_size"`
	PollInterval     time.Duration `json:"poll_interval"`
	TypingTTL        time.Duration `json:"typing_ttl"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

// LoadConfig reads configuration from the environment, with development
// defaults for everything except the conversation salt.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("CHAT_SERVICE_PORT", "7003"),
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvIntOrDefault("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "matchchat"),
			Password:     getEnvOrDefault("DB_PASSWORD", ""),
			DatabaseName: getEnvOrDefault("DB_NAME", "matchchat"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USER", ""),
			Password: getEnvOrDefault("MONGO_PASSWORD", ""),
			Database: getEnvOrDefault("MONGO_DB", "matchchat"),
		},
		Realtime: RealtimeConfig{
			Addr:           getEnvOrDefault("REALTIME_REDIS_ADDR", ""),
			Password:       getEnvOrDefault("REALTIME_REDIS_PASSWORD", ""),
			DB:             getEnvIntOrDefault("REALTIME_REDIS_DB", 0),
			PublishTimeout: time.Duration(getEnvIntOrDefault("REALTIME_PUBLISH_TIMEOUT_MS", 2000)) * time.Millisecond,
		},
		Chat: ChatConfig{
			ConversationSalt: getEnvOrDefault("CONVERSATION_SALT", ""),
			DefaultPageSize:  getEnvIntOrDefault("CHAT_DEFAULT_PAGE_SIZE", 50),
			MaxPageSize:      getEnvIntOrDefault("CHAT_MAX_PAGE_SIZE", 100),
			PollInterval:     time.Duration(getEnvIntOrDefault("CHAT_POLL_INTERVAL_SEC", 3)) * time.Second,
			TypingTTL:        time.Duration(getEnvIntOrDefault("CHAT_TYPING_TTL_MS", 4000)) * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
		},
	}
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" && cfg.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s",
			cfg.MongoDB.Username, cfg.MongoDB.Password, cfg.MongoDB.Host, cfg.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s", cfg.MongoDB.Host, cfg.MongoDB.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
