package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage backends.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

const (
	defaultPort          = "5000"
	defaultLogLevel      = "info"
	defaultMongoDatabase = "taskmanager"
	defaultSQLitePath    = "tasks.db"
	defaultTokenTTL      = time.Hour
	defaultKafkaTopic    = "task-events"
)

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Config is the process configuration, resolved once at startup.
type Config struct {
	Port     string
	LogLevel string
	DB       DBConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Kafka    KafkaConfig
}

type DBConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":                 "PORT",
	"log.level":            "LOG_LEVEL",
	"db.driver":            "DB_DRIVER",
	"db.mongo_uri":         "MONGO_URI",
	"db.mongo_database":    "MONGO_DATABASE",
	"db.sqlite_path":       "SQLITE_PATH",
	"auth.jwt_secret":      "JWT_SECRET",
	"auth.token_ttl":       "TOKEN_TTL",
	"cors.allowed_origins": "CORS_ORIGINS",
	"kafka.brokers":        "KAFKA_BROKERS",
	"kafka.topic":          "KAFKA_TOPIC",
}

// Load resolves configuration from, in order of precedence: the process
// environment, an optional .env file, an optional configs/config.yml, and defaults.
// configDir may be empty to use "configs".
func Load(configDir string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	if configDir == "" {
		configDir = "configs"
	}
	v.AddConfigPath(configDir) // configs/config.yml
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetDefault("port", defaultPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("db.driver", DriverMongo)
	v.SetDefault("db.mongo_database", defaultMongoDatabase)
	v.SetDefault("db.sqlite_path", defaultSQLitePath)
	v.SetDefault("auth.token_ttl", defaultTokenTTL)
	v.SetDefault("cors.allowed_origins", defaultAllowedOrigins)
	v.SetDefault("kafka.topic", defaultKafkaTopic)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:     v.GetString("port"),
		LogLevel: strings.ToLower(v.GetString("log.level")),
		DB: DBConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
			MongoURI:      v.GetString("db.mongo_uri"),
			MongoDatabase: v.GetString("db.mongo_database"),
			SQLitePath:    v.GetString("db.sqlite_path"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		CORS: CORSConfig{
			AllowedOrigins: stringList(v, "cors.allowed_origins"),
		},
		Kafka: KafkaConfig{
			Brokers: stringList(v, "kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the process cannot start with.
// A missing JWT secret is tolerated and reported by the env check instead.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMongo:
		if c.DB.MongoURI == "" {
			return errors.New("MONGO_URI is required when db.driver is mongo")
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return errors.New("db.sqlite_path is required when db.driver is sqlite")
		}
	default:
		return fmt.Errorf("unsupported db.driver %q: use %q or %q", c.DB.Driver, DriverMongo, DriverSQLite)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// stringList reads a list that may come from YAML (a sequence) or from the
// environment (a comma separated string).
func stringList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return splitCSV(s)
	}
	return v.GetStringSlice(key)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
