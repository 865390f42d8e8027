package config

import (
	"strings"
	"sync"

	"eventhub/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
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
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type StorageConfig struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// PlaceholderImageURL is served for events without a cover image.
	PlaceholderImageURL string
}

type WorkerConfig struct {
	Enabled     bool
	Concurrency int
}

var (
	instance *Config
	once     sync.Once
)

// Get loads configuration on first use. A .env file is optional; environment
// variables always win.
func Get() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logger.Debug("config: no .env file found, using environment only")
		}

		v := viper.New()
		v.SetEnvPrefix("EVENTHUB")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetDefault("server.port", "7070")
		v.SetDefault("database.host", "localhost")
		v.SetDefault("database.port", 5432)
		v.SetDefault("database.user", "postgres")
		v.SetDefault("database.password", "postgres")
		v.SetDefault("database.dbname", "eventhub")
		v.SetDefault("database.sslmode", "disable")
		v.SetDefault("redis.addr", "localhost:6379")
		v.SetDefault("redis.password", "")
		v.SetDefault("redis.db", 0)
		v.SetDefault("jwt.secret", "")
		v.SetDefault("jwt.expiry_hours", 24)
		v.SetDefault("storage.region", "us-east-1")
		v.SetDefault("storage.bucket", "eventhub-media")
		v.SetDefault("storage.endpoint", "")
		v.SetDefault("storage.access_key_id", "")
		v.SetDefault("storage.secret_access_key", "")
		v.SetDefault("storage.placeholder_image_url", "https://cdn.eventhub.local/static/event-placeholder.png")
		v.SetDefault("worker.enabled", true)
		v.SetDefault("worker.concurrency", 5)

		instance = &Config{
			Server: ServerConfig{
				Port: v.GetString("server.port"),
			},
			Database: DatabaseConfig{
				Host:     v.GetString("database.host"),
				Port:     v.GetInt("database.port"),
				User:     v.GetString("database.user"),
				Password: v.GetString("database.password"),
				DBName:   v.GetString("database.dbname"),
				SSLMode:  v.GetString("database.sslmode"),
			},
			Redis: RedisConfig{
				Addr:     v.GetString("redis.addr"),
				Password: v.GetString("redis.password"),
				DB:       v.GetInt("redis.db"),
			},
			JWT: JWTConfig{
				Secret:      v.GetString("jwt.secret"),
				ExpiryHours: v.GetInt("jwt.expiry_hours"),
			},
			Storage: StorageConfig{
				Region:              v.GetString("storage.region"),
				Bucket:              v.GetString("storage.bucket"),
				Endpoint:            v.GetString("storage.endpoint"),
				AccessKeyID:         v.GetString("storage.access_key_id"),
				SecretAccessKey:     v.GetString("storage.secret_access_key"),
				PlaceholderImageURL: v.GetString("storage.placeholder_image_url"),
			},
			Worker: WorkerConfig{
				Enabled:     v.GetBool("worker.enabled"),
				Concurrency: v.GetInt("worker.concurrency"),
			},
		}

		if instance.JWT.Secret == "" {
			logger.Warn("config: EVENTHUB_JWT_SECRET is not set, tokens will not verify across restarts")
		}
	})
	return instance
}
