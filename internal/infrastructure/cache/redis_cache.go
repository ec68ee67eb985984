package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/fulfillment-api/internal/application/movement"
)

var _ movement.StatsCache = (*RedisStatsCache)(nil)

// RedisStatsCache cachea los contadores agregados de la bitácora en Redis,
// serializados como JSON.
type RedisStatsCache struct {
	client *redis.Client
}

// NewRedisStatsCache construye el caché con un cliente propio.
func NewRedisStatsCache(addr, password string, db int) *RedisStatsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStatsCache{client: client}
}

// Ping verifica la conexión.
func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

// Get devuelve el valor cacheado; el segundo retorno indica hit.
func (c *RedisStatsCache) Get(ctx context.Context, key string) (*movement.Stats, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats movement.Stats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, false, err
	}
	return &stats, true, nil
}

// Set guarda el valor con el TTL dado.
func (c *RedisStatsCache) Set(ctx context.Context, key string, value *movement.Stats, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
