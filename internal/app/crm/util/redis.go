package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName          = "crm"
	permissionsKeyPrefix = "permissions"
)

// RedisClient - кеш страниц каталога разрешений.
// Каталог пишется только сидом при старте, поэтому кешировать его безопасно
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientWithClient оборачивает готовый клиент (для тестов с miniredis)
func NewRedisClientWithClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func permissionPageKey(page, limit int) string {
	return fmt.Sprintf("%s:page:%d:limit:%d", permissionsKeyPrefix, page, limit)
}

// SetPermissionPage кладет страницу каталога в кеш с TTL
func (r *RedisClient) SetPermissionPage(ctx context.Context, page, limit int, data *entity.PermissionPage, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal permission page: %w", err)
	}

	if err := r.client.Set(ctx, permissionPageKey(page, limit), raw, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set permission page in cache: %w", err)
	}

	return nil
}

// GetPermissionPage читает страницу каталога из кеша.
// Возвращает (nil, nil) при промахе
func (r *RedisClient) GetPermissionPage(ctx context.Context, page, limit int) (*entity.PermissionPage, error) {
	raw, err := r.client.Get(ctx, permissionPageKey(page, limit)).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, permissionsKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get permission page from cache: %w", err)
	}

	var data entity.PermissionPage
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal permission page: %w", err)
	}

	metrics.RecordCacheHit(serviceName, permissionsKeyPrefix)
	return &data, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
