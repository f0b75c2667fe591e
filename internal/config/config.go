package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Supported store backends
const (
	BackendMongo  = "mongo"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Mongo   MongoConfig
	DB      DBConfig
	Auth    AuthConfig
	Static  StaticConfig
	Limits  LimitsConfig
	Monitor MonitorConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int      `envconfig:"PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// StoreConfig selects the persistence backend and bounds every store call
type StoreConfig struct {
	Backend        string        `envconfig:"STORE_BACKEND" default:"mongo"`
	Timeout        time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	ConnectTimeout time.Duration `envconfig:"STORE_CONNECT_TIMEOUT" default:"10s"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI        string `envconfig:"MONGO_URI"`
	Database   string `envconfig:"MONGO_DATABASE" default:"edutalk"`
	Collection string `envconfig:"MONGO_COLLECTION" default:"videos"`
}

// DBConfig holds MySQL configuration
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASSWORD"`
	Database string `envconfig:"DB_NAME" default:"edutalk"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
}

// AuthConfig holds the shared creator secret.
// An empty APIKey leaves write routes open.
type AuthConfig struct {
	APIKey string `envconfig:"CREATOR_API_KEY"`
	Header string `envconfig:"API_KEY_HEADER" default:"X-API-Key"`
}

// StaticConfig holds the front-end bundle directories, searched in order
type StaticConfig struct {
	PublicDir string `envconfig:"PUBLIC_DIR" default:"public"`
	WebDir    string `envconfig:"WEB_DIR" default:"web"`
}

// LimitsConfig holds request rate limits
type LimitsConfig struct {
	RequestsPerMinute int     `envconfig:"RATE_LIMIT_PER_MINUTE" default:"600"`
	WritesPerSecond   float64 `envconfig:"WRITE_RATE_LIMIT" default:"20"`
	WriteBurst        int     `envconfig:"WRITE_BURST" default:"40"`
}

// MonitorConfig holds the store connectivity monitor configuration
type MonitorConfig struct {
	Interval time.Duration `envconfig:"MONITOR_INTERVAL" default:"30s"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// DSN returns the MySQL data source name
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	sections := []struct {
		name   string
		target interface{}
	}{
		{"server", &cfg.Server},
		{"store", &cfg.Store},
		{"mongo", &cfg.Mongo},
		{"db", &cfg.DB},
		{"auth", &cfg.Auth},
		{"static", &cfg.Static},
		{"limits", &cfg.Limits},
		{"monitor", &cfg.Monitor},
		{"log", &cfg.Log},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	case BackendMySQL:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the mysql backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of mongo, mysql, memory (got %q)", c.Store.Backend)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Auth.APIKey != "" && c.Auth.Header == "" {
		return fmt.Errorf("API_KEY_HEADER must be set when CREATOR_API_KEY is set")
	}
	if c.Limits.WritesPerSecond <= 0 {
		return fmt.Errorf("WRITE_RATE_LIMIT must be positive")
	}
	if c.Limits.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive")
	}
	return nil
}
