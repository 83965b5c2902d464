package database

import (
	"github.com/redis/go-redis/v9"

	"freshmind/internal/config"
)

// NewRedis creates a Redis client for session profiles and rate limiting.
func NewRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
