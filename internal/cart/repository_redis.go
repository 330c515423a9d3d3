package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:"
	// carts are durable session state, not a cache; keep them for a month
	cartTTL      = 30 * 24 * time.Hour
	redisTimeout = 5 * time.Second
)

// RedisRepository stores each user's cart as a JSON array under cart:<id>.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func cartKey(userID uuid.UUID) string {
	return cartKeyPrefix + userID.String()
}

func (r *RedisRepository) Load(userID uuid.UUID) ([]CartItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisRepository) Save(userID uuid.UUID, items []CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.client.Set(ctx, cartKey(userID), raw, cartTTL).Err()
}

func (r *RedisRepository) Clear(userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.client.Del(ctx, cartKey(userID)).Err()
}
