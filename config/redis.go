package config

import (
	"context"

	"carhub/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when redis is not configured or unreachable.
// Token revocation degrades to client-side discard in that case.
func ConnectRedis(log logger.ILogger) *redis.Client {
	if AppConfig.RedisAddr == "" {
		log.Warning("REDIS_ADDR not set, running without token revocation")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     AppConfig.RedisAddr,
		Password: AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Warning("redis connection failed, running without token revocation", logger.Error(err))
		client.Close()
		return nil
	}

	log.Info("redis connected")
	return client
}
