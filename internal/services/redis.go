package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetCourierLocation stores the courier's latest reported position in Redis
func SetCourierLocation(ctx context.Context, courierID uint, lat, lng, accuracy, speed, heading float64) error {
	locationData := map[string]interface{}{
		"latitude":  lat,
		"longitude": lng,
		"accuracy":  accuracy,
		"speed":     speed,
		"heading":   heading,
		"updated":   time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("courier:location:%d", courierID)
	return RedisClient.Set(ctx, key, data, time.Hour).Err()
}

// GetCourierLocation retrieves the courier's latest position from Redis
func GetCourierLocation(ctx context.Context, courierID uint) (lat, lng float64, err error) {
	key := fmt.Sprintf("courier:location:%d", courierID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	var locationData map[string]interface{}
	if err := json.Unmarshal([]byte(data), &locationData); err != nil {
		return 0, 0, err
	}

	lat, _ = locationData["latitude"].(float64)
	lng, _ = locationData["longitude"].(float64)

	return lat, lng, nil
}

// PublishCourierLocation publishes a courier location update to Redis pub/sub
func PublishCourierLocation(ctx context.Context, courierID uint, lat, lng, speed, heading float64) error {
	locationData := map[string]interface{}{
		"courierId": courierID,
		"location": map[string]float64{
			"latitude":  lat,
			"longitude": lng,
			"speed":     speed,
			"heading":   heading,
		},
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "courier:location:updates", data).Err()
}
