package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legalconnect/internal/models"
	keys "legalconnect/internal/utils/cache"

	"github.com/redis/go-redis/v9"
)

// RosterTTL bounds how stale a cached candidate roster may get. Routing
// tolerates slightly stale reliability numbers but not minutes-old ones.
const RosterTTL = 30 * time.Second

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
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
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

func (s *CacheService) Delete(ctx context.Context, cacheKeys ...string) error {
	return s.client.Del(ctx, cacheKeys...).Err()
}

// Practitioner caching
func (s *CacheService) CachePractitioner(ctx context.Context, p *models.Practitioner) error {
	if p == nil {
		return errors.New("cannot cache nil practitioner")
	}

	entries := []string{
		keys.GenerateKey(keys.EntityPractitioner, keys.KeyID, p.ID),
		keys.GenerateKey(keys.EntityPractitioner, keys.KeyEmail, p.Email),
	}
	for _, key := range entries {
		if err := s.Set(ctx, key, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetPractitioner(ctx context.Context, id uint) (*models.Practitioner, bool, error) {
	var p models.Practitioner
	found, err := s.Get(ctx, keys.GenerateKey(keys.EntityPractitioner, keys.KeyID, id), &p)
	if err != nil || !found {
		return nil, false, err
	}
	return &p, true, nil
}

func (s *CacheService) InvalidatePractitioner(ctx context.Context, p *models.Practitioner) error {
	if p == nil {
		return nil
	}
	return s.Delete(ctx,
		keys.GenerateKey(keys.EntityPractitioner, keys.KeyID, p.ID),
		keys.GenerateKey(keys.EntityPractitioner, keys.KeyEmail, p.Email),
	)
}

// Roster caching. Rosters are keyed by expertise tag and city and expire
// quickly; any registry mutation also drops them wholesale.
func rosterKey(tag, city string) string {
	return keys.GenerateKey(keys.EntityRoster, keys.KeyTag, tag+":"+city)
}

func (s *CacheService) CacheRoster(ctx context.Context, tag, city string, roster interface{}) error {
	return s.SetWithTTL(ctx, rosterKey(tag, city), roster, RosterTTL)
}

func (s *CacheService) GetRoster(ctx context.Context, tag, city string, dest interface{}) (bool, error) {
	return s.Get(ctx, rosterKey(tag, city), dest)
}

func (s *CacheService) InvalidateRosters(ctx context.Context) error {
	pattern := keys.GenerateKey(keys.EntityRoster, keys.KeyTag, "*")
	found, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return s.client.Del(ctx, found...).Err()
	}
	return nil
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
