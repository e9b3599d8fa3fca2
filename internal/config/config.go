package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"

	ClipStorageNone = "none"
	ClipStorageS3   = "s3"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Feed         FeedConfig
	RateLimit    RateLimitConfig
	Logging      LoggingConfig
	CORS         CORSConfig
	GeminiAPIKey string
	GeminiModel  string
}

type ServerConfig struct {
	Host            string
	Port            int
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// StorageConfig selects the repository backend and the clip object store.
type StorageConfig struct {
	Backend     string
	Clips       string
	S3Region    string
	S3Bucket    string
	S3Prefix    string
	PresignTTL  time.Duration
	AutoMigrate bool
}

type FeedConfig struct {
	Size int
}

type RateLimitConfig struct {
	Likes    int
	Responds int
	Messages int
	Window   time.Duration
}

type LoggingConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("STORAGE_BACKEND", BackendMemory)
	v.SetDefault("CLIP_STORAGE", ClipStorageNone)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "clips")
	v.SetDefault("S3_PRESIGN_TTL", "15m")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("FEED_SIZE", 10)
	v.SetDefault("RATE_LIMIT_LIKES", 60)
	v.SetDefault("RATE_LIMIT_RESPONDS", 60)
	v.SetDefault("RATE_LIMIT_MESSAGES", 120)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads path if it exists, then lets the environment override it.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			Env:             strings.ToLower(v.GetString("ENV")),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(v.GetString("STORAGE_BACKEND")),
			Clips:       strings.ToLower(v.GetString("CLIP_STORAGE")),
			S3Region:    v.GetString("S3_REGION"),
			S3Bucket:    v.GetString("S3_BUCKET"),
			S3Prefix:    v.GetString("S3_PREFIX"),
			PresignTTL:  v.GetDuration("S3_PRESIGN_TTL"),
			AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		},
		Feed: FeedConfig{
			Size: v.GetInt("FEED_SIZE"),
		},
		RateLimit: RateLimitConfig{
			Likes:    v.GetInt("RATE_LIMIT_LIKES"),
			Responds: v.GetInt("RATE_LIMIT_RESPONDS"),
			Messages: v.GetInt("RATE_LIMIT_MESSAGES"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
		GeminiModel:  v.GetString("GEMINI_MODEL"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Storage.Clips {
	case ClipStorageNone, "":
	case ClipStorageS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when clip storage is s3")
		}
	default:
		return fmt.Errorf("unknown clip storage %q", c.Storage.Clips)
	}

	if c.Feed.Size < 1 || c.Feed.Size > 50 {
		return fmt.Errorf("feed size must be between 1 and 50")
	}
	return nil
}

// RedisEnabled reports whether a Redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr returns the HTTP listen address
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
