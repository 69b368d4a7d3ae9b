package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const snapshotKeyPrefix = "monitoring:snapshot:"

type IRedis interface {
	SetSnapshot(ctx context.Context, sessionID string, payload string, expiration time.Duration) error
	GetSnapshot(ctx context.Context, sessionID string) (string, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetSnapshot(ctx context.Context, sessionID string, payload string, expiration time.Duration) error {
	err := r.client.Set(ctx, snapshotKeyPrefix+sessionID, payload, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error caching snapshot for session %s: %v", sessionID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetSnapshot(ctx context.Context, sessionID string) (string, error) {
	val, err := r.client.Get(ctx, snapshotKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("No cached snapshot for session %s", sessionID))
		return "", err
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting snapshot for session %s: %v", sessionID, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) DeleteSnapshot(ctx context.Context, sessionID string) error {
	_, err := r.client.Del(ctx, snapshotKeyPrefix+sessionID).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting snapshot for session %s: %v", sessionID, err))
		return err
	}
	return nil
}
