package utils

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const testKey = "connTest"

var rdb *redis.Client

func InitCache(connUrl string) {
	logger := zap.L()
	logger.Info("Trying to establish a connection with redis cache...")

	opt, err := redis.ParseURL(connUrl)
	if err != nil {
		logger.Fatal("Failed to parse redis connection URL", zap.Error(err))
	}

	rdb = redis.NewClient(opt)

	// test the connection
	ctx := context.Background()

	testData := strconv.Itoa(rand.IntN(15000))
	err = rdb.Set(ctx, testKey, testData, 5*time.Minute).Err()
	if err != nil {
		logger.Fatal("Failed to set test data in cache", zap.Error(err))
	}

	res, err := rdb.Get(ctx, testKey).Result()
	if err != nil {
		logger.Fatal("Failed to retrieve test data from cache", zap.Error(err))
	}
	if res != testData {
		logger.Fatal("Incorrect test data returned from cache",
			zap.String("expected", testData),
			zap.String("got", res),
		)
	}

	logger.Info("Successfully connected to the cache")
}

// SetCacheClient swaps the client, tests point it at a throwaway redis
func SetCacheClient(client *redis.Client) {
	rdb = client
}

func CloseCache() {
	if rdb != nil {
		rdb.Close()
	}
}

func increment(ctx context.Context, key string, expireAfter time.Duration) (int64, error) {
	if rdb == nil {
		return 0, fmt.Errorf("cache is not initialized")
	}

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		rdb.Expire(ctx, key, expireAfter)
	}

	return count, nil
}

func IncrementRateLimit(ctx context.Context, clientId string, expireAfter time.Duration) (int64, error) {
	key := fmt.Sprintf("rateLimit:%s", clientId)
	return increment(ctx, key, expireAfter)
}

func IncrementPathRateLimit(ctx context.Context, path string, clientId string, expireAfter time.Duration) (int64, error) {
	key := fmt.Sprintf("pathRateLimit:%s-%s", path, clientId)
	return increment(ctx, key, expireAfter)
}
