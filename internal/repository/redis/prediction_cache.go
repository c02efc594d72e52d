package redis

import (
	"context"
	"errors"
	"fmt"
	"pricewise/business/pricing"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pricewise:discount"

// PredictionCache stores model outputs keyed by feature vector. Entries are
// namespaced by model version so a new artifact never reads stale values.
type PredictionCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

var _ pricing.DiscountCache = (*PredictionCache)(nil)

func NewPredictionCache(client *redis.Client, namespace string, ttl time.Duration) *PredictionCache {
	if namespace == "" {
		namespace = "default"
	}

	return &PredictionCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (c *PredictionCache) key(featureKey string) string {
	// key format: "pricewise:discount:{model_version}:{features}"
	return fmt.Sprintf("%s:%s:%s", keyPrefix, c.namespace, featureKey)
}

// GetDiscount reports ok=false on a miss. Only transport failures are errors.
func (c *PredictionCache) GetDiscount(ctx context.Context, featureKey string) (float64, bool, error) {
	val, err := c.client.Get(ctx, c.key(featureKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get discount from Redis: %w", err)
	}

	discount, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse cached discount %q: %w", val, err)
	}

	return discount, true, nil
}

func (c *PredictionCache) SetDiscount(ctx context.Context, featureKey string, discount float64) error {
	val := strconv.FormatFloat(discount, 'g', -1, 64)

	if err := c.client.Set(ctx, c.key(featureKey), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store discount in Redis: %w", err)
	}

	return nil
}
