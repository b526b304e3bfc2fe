package db

import (
	"context"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// RedisClient stays nil when REDIS_ADDR is not set; callers treat a nil
// client as "no server-side refresh-token store".
var RedisClient *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, refresh tokens will not be tracked server-side")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	RedisClient = client
	log.Println("Connected to Redis")
}
