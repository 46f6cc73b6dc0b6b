package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type StorageConfig struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
	BaseURL  string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DB", "furniture")
	viper.SetDefault("REDIS_HOST", "")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_SECRET", "dev-secret-change-me")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("S3_REGION", "us-east-1")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DB"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret: viper.GetString("SESSION_SECRET"),
			TTL:    time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
		Storage: StorageConfig{
			Bucket:   viper.GetString("S3_BUCKET"),
			Region:   viper.GetString("S3_REGION"),
			Key:      viper.GetString("S3_KEY"),
			Secret:   viper.GetString("S3_SECRET"),
			Endpoint: viper.GetString("S3_ENDPOINT"),
			BaseURL:  viper.GetString("S3_URL"),
		},
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
