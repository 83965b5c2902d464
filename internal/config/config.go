package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Chatbot  ChatbotConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret     string
	TTLHours   int // session cookie lifetime
	ProfileTTL int // profile retention in hours, 0 keeps until cleared
}

type ChatbotConfig struct {
	BaseURL        string
	TimeoutSeconds int
	DefaultModel   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_TTL_HOURS", 720)
	viper.SetDefault("PROFILE_TTL_HOURS", 0)
	viper.SetDefault("CHATBOT_BASE_URL", "http://localhost:8000")
	viper.SetDefault("CHATBOT_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CHATBOT_DEFAULT_MODEL", "gpt")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:     viper.GetString("SESSION_SECRET"),
			TTLHours:   viper.GetInt("SESSION_TTL_HOURS"),
			ProfileTTL: viper.GetInt("PROFILE_TTL_HOURS"),
		},
		Chatbot: ChatbotConfig{
			BaseURL:        viper.GetString("CHATBOT_BASE_URL"),
			TimeoutSeconds: viper.GetInt("CHATBOT_TIMEOUT_SECONDS"),
			DefaultModel:   viper.GetString("CHATBOT_DEFAULT_MODEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
		},
	}
}
