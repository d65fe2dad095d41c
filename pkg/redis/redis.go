package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ChatbotGolang/internal/entity"
)

// IRedis caches the most recent completed order per customer name so
// status lookups skip postgres on the hot path.
type IRedis interface {
	SetLastOrder(ctx context.Context, customerName string, order entity.Order, expiration time.Duration) error
	GetLastOrder(ctx context.Context, customerName string) (entity.Order, error)
}

var ErrCacheMiss = errors.New("order not cached")

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

func orderKey(customerName string) string {
	return fmt.Sprintf("chat:last_order:%s", customerName)
}

func (r *redisClient) SetLastOrder(ctx context.Context, customerName string, order entity.Order, expiration time.Duration) error {
	payload, err := jsoniter.Marshal(order)
	if err != nil {
		logrus.Error(fmt.Sprintf("Error marshaling order for %s: %v", customerName, err))
		return err
	}

	if err := r.client.Set(ctx, orderKey(customerName), payload, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching order for %s: %v", customerName, err))
		return err
	}

	logrus.Debug(fmt.Sprintf("Cached last order for %s", customerName))
	return nil
}

func (r *redisClient) GetLastOrder(ctx context.Context, customerName string) (entity.Order, error) {
	val, err := r.client.Get(ctx, orderKey(customerName)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.Order{}, ErrCacheMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting cached order for %s: %v", customerName, err))
		return entity.Order{}, err
	}

	var order entity.Order
	if err := jsoniter.Unmarshal([]byte(val), &order); err != nil {
		logrus.Error(fmt.Sprintf("Error unmarshaling cached order for %s: %v", customerName, err))
		return entity.Order{}, err
	}

	return order, nil
}
