// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"coachhub/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
)

// NewRedisClient connects to the configured Redis server using the given logical DB.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis db %d: %w", db, err)
	}
	return client, nil
}

// InitRedis initializes the cache and auth cache clients.
func InitRedis() error {
	var err error
	if CacheClient, err = NewRedisClient(config.AppConfig.RedisCacheDB); err != nil {
		return err
	}
	if AuthCacheClient, err = NewRedisClient(config.AppConfig.RedisAuthDB); err != nil {
		return err
	}
	return nil
}

// AuthCacheKey builds the composite key for a device's token hash.
func AuthCacheKey(userID, deviceID string) string {
	return AuthCachePrefix + userID + ":" + deviceID
}

// QueueRedisOpt is the asynq connection for the reminder queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
