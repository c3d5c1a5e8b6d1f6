package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tally/internal/models"

	"github.com/redis/go-redis/v9"
)

// AccountCacheDuration bounds how stale a cached account read may be.
// Balance-changing writes invalidate eagerly, so this is a backstop.
const AccountCacheDuration = 5 * time.Minute

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Account caching, keyed by owning user id.
func (s *CacheService) CacheAccount(ctx context.Context, account *models.Account) error {
	return s.Set(ctx, accountKey(account.UserID), account)
}

func (s *CacheService) GetAccount(ctx context.Context, userID uint) (*models.Account, error) {
	var account models.Account
	found, err := s.Get(ctx, accountKey(userID), &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

func (s *CacheService) InvalidateAccount(ctx context.Context, userID uint) error {
	return s.Delete(ctx, accountKey(userID))
}

func accountKey(userID uint) string {
	return fmt.Sprintf("account:user:%d", userID)
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
