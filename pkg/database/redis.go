package database

import (
	"context"
	"fmt"
	"log"
	"sensen_backend/internal/config"
	"time"

	"github.com/go-redis/redis/v8"
)

// InitRedis returns a nil client when redis is disabled; callers treat a nil
// client as "no cache".
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		log.Println("Redis disabled, caching off")
		return nil, nil
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 50
	}
	dialTimeout := time.Duration(cfg.DialTimeoutSec) * time.Second
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: 5,
		DialTimeout:  dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", rdb.Options().Addr, err)
	}

	log.Println("Redis connection established")
	return rdb, nil
}
