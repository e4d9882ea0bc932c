package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gymcore/internal/models"
)

type CacheService interface {
	// Session management. Sessions are opaque server-side records keyed by
	// the cookie-held session ID; a miss is ("", nil), never an error.
	SetSession(ctx context.Context, sessionID, data string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	TouchSession(ctx context.Context, sessionID string, ttl time.Duration) error

	// Invite-code lookups are the hottest public read; cache the gym record.
	GetGymByInvite(ctx context.Context, code string) (*models.Gym, error)
	SetGymByInvite(ctx context.Context, gym *models.Gym, ttl time.Duration) error
	DeleteGymInvite(ctx context.Context, code string) error

	// Rate limiting primitives (fixed window)
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port URLs as well as bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) SetSession(ctx context.Context, sessionID, data string, ttl time.Duration) error {
	key := fmt.Sprintf("gymcore:session:%s", sessionID)
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	key := fmt.Sprintf("gymcore:session:%s", sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // not found
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("gymcore:session:%s", sessionID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) TouchSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	key := fmt.Sprintf("gymcore:session:%s", sessionID)
	return r.client.Expire(ctx, key, ttl).Err()
}

func (r *redisCacheService) GetGymByInvite(ctx context.Context, code string) (*models.Gym, error) {
	key := fmt.Sprintf("gymcore:invite:%s", code)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var gym models.Gym
	if err := json.Unmarshal(data, &gym); err != nil {
		return nil, err
	}
	return &gym, nil
}

func (r *redisCacheService) SetGymByInvite(ctx context.Context, gym *models.Gym, ttl time.Duration) error {
	key := fmt.Sprintf("gymcore:invite:%s", gym.InviteCode)
	data, err := json.Marshal(gym)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteGymInvite(ctx context.Context, code string) error {
	key := fmt.Sprintf("gymcore:invite:%s", code)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("gymcore:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
